package model

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type FeaturedImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt,omitempty"`
	Caption string `json:"caption,omitempty"`
}

type Post struct {
	ID       string     `json:"id"`
	Slug     string     `json:"slug"`
	Title    string     `json:"title"`
	Excerpt  string     `json:"excerpt,omitempty"`
	Content  string     `json:"content,omitempty"`
	Status   PostStatus `json:"status"`
	Featured bool       `json:"featured"`

	Categories    []string       `json:"categories"`
	Tags          []string       `json:"tags,omitempty"`
	FeaturedImage *FeaturedImage `json:"featuredImage,omitempty"`

	Author   UserRef   `json:"author"`
	Likes    []UserRef `json:"likes"`
	HasLiked bool      `json:"hasLiked"`
	Comments []Comment `json:"comments,omitempty"`

	Views    int `json:"views"`
	ReadTime int `json:"readTime"`

	PublishedAt *time.Time `json:"publishedAt,omitempty"`

	MetaTitle       string `json:"metaTitle,omitempty"`
	MetaDescription string `json:"metaDescription,omitempty"`
	Keywords        string `json:"keywords,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	User      UserRef   `json:"user"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	// Replies are single-level: a reply never carries replies of its own.
	Replies []Comment `json:"replies,omitempty"`
}

type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type BlogStats struct {
	TotalBlogs int `json:"totalBlogs"`
	TotalViews int `json:"totalViews"`
}

type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

type AcademicLevel string

const (
	LevelHighSchool    AcademicLevel = "high-school"
	LevelUndergraduate AcademicLevel = "undergraduate"
	LevelGraduate      AcademicLevel = "graduate"
)

type FinancialReadiness string

const (
	FinancialSelfFunded  FinancialReadiness = "self-funded"
	FinancialScholarship FinancialReadiness = "scholarship"
	FinancialLoan        FinancialReadiness = "loan"
	FinancialUndecided   FinancialReadiness = "undecided"
)

type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Size int64  `json:"size,omitempty"`
}

// Application is the server-side record created by a terminal submission.
type Application struct {
	ID string `json:"id"`

	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address,omitempty"`
	IsMinor     bool   `json:"isMinor"`
	ParentName  string `json:"parentName,omitempty"`
	ParentEmail string `json:"parentEmail,omitempty"`
	ParentPhone string `json:"parentPhone,omitempty"`

	CurrentSchool   string        `json:"currentSchool"`
	AcademicLevel   AcademicLevel `json:"academicLevel"`
	IntendedMajor   string        `json:"intendedMajor"`
	TargetCountries []string      `json:"targetCountries"`

	MotivationEssay    string             `json:"motivationEssay"`
	FinancialReadiness FinancialReadiness `json:"financialReadiness"`

	Documents []DocumentRef     `json:"documents,omitempty"`
	Status    ApplicationStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
}

// DocumentFile is a local file attached to a draft before submission.
// Progress is a display-only percentage; bytes are not sent until submit.
type DocumentFile struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Progress int    `json:"progress"`
}

// Draft is the wizard's working record. It lives client-side only and is
// never partially persisted to the server before the terminal submission.
type Draft struct {
	ID string `json:"id"`

	// Personal (step 1)
	FullName    string `json:"fullName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	IsMinor     bool   `json:"isMinor"`
	ParentName  string `json:"parentName"`
	ParentEmail string `json:"parentEmail"`
	ParentPhone string `json:"parentPhone"`

	// Academic (step 2)
	CurrentSchool   string        `json:"currentSchool"`
	AcademicLevel   AcademicLevel `json:"academicLevel"`
	IntendedMajor   string        `json:"intendedMajor"`
	TargetCountries []string      `json:"targetCountries"`

	// Documents (step 3)
	Documents []DocumentFile `json:"documents"`

	// Essay + financials (step 4)
	MotivationEssay    string             `json:"motivationEssay"`
	FinancialReadiness FinancialReadiness `json:"financialReadiness"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogFilters are the list query parameters; zero values are omitted.
type BlogFilters struct {
	Search    string `json:"search,omitempty"`
	Category  string `json:"category,omitempty"`
	Tag       string `json:"tag,omitempty"`
	SortBy    string `json:"sortBy,omitempty"`    // publishedAt|views|readTime
	SortOrder string `json:"sortOrder,omitempty"` // asc|desc
}
