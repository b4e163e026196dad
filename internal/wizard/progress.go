package wizard

import "upi-cli/internal/model"

// Display-only upload progress. Attaching a document starts its percentage
// at zero and a UI ticker walks it to 100 in fixed increments. The actual
// bytes are not transferred until the terminal submission; this mirrors the
// platform's original upload indicator.

// ProgressIncrement is how far each tick advances a document's percentage.
const ProgressIncrement = 10

// TickProgress advances every in-progress document and reports whether any
// document is still below 100.
func (w *Wizard) TickProgress() bool {
	active := false
	for i := range w.draft.Documents {
		d := &w.draft.Documents[i]
		if d.Progress >= 100 {
			continue
		}
		d.Progress += ProgressIncrement
		if d.Progress > 100 {
			d.Progress = 100
		}
		if d.Progress < 100 {
			active = true
		}
	}
	return active
}

// AddDocument validates and attaches a local file to the draft.
func (w *Wizard) AddDocument(path string) error {
	doc, err := CheckDocument(path)
	if err != nil {
		return err
	}
	return w.Update(func(d *model.Draft) {
		d.Documents = append(d.Documents, doc)
	})
}

// RemoveDocument drops the i-th attached document.
func (w *Wizard) RemoveDocument(i int) error {
	return w.Update(func(d *model.Draft) {
		if i < 0 || i >= len(d.Documents) {
			return
		}
		d.Documents = append(d.Documents[:i], d.Documents[i+1:]...)
	})
}
