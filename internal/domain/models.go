package domain

// Domain contains the CMS entity payloads as the API serves them.

// CategoryType scopes a category to products or industries.
type CategoryType string

const (
	CategoryProduct  CategoryType = "product"
	CategoryIndustry CategoryType = "industry"
)

// Category is a product or industry grouping.
type Category struct {
	ID       int64        `json:"id,omitempty"`
	Name     string       `json:"name" validate:"required"`
	ImgURL   string       `json:"img_url,omitempty"`
	ParentID *int64       `json:"parent_id,omitempty"`
	Type     CategoryType `json:"type" validate:"required,oneof=product industry"`
	Status   string       `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// Industry is a bilingual industry page.
type Industry struct {
	ID             int64    `json:"id,omitempty"`
	NameEN         string   `json:"name_en" validate:"required"`
	NameVI         string   `json:"name_vi" validate:"required"`
	ImageURL       string   `json:"image_url,omitempty"`
	ParentID       *int64   `json:"parent_id,omitempty"`
	IntroductionEN string   `json:"introduction_en"`
	IntroductionVI string   `json:"introduction_vi"`
	ApplicationsEN []string `json:"applications_en"`
	ApplicationsVI []string `json:"applications_vi"`
	SolutionLink   string   `json:"solution_link,omitempty" validate:"omitempty,url"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

// Name returns the bilingual industry name.
func (i Industry) Name() Localized { return Localized{EN: i.NameEN, VI: i.NameVI} }

// RefName is the short {id, name_en, name_vi} form embedded in products.
type RefName struct {
	ID     int64  `json:"id"`
	NameEN string `json:"name_en"`
	NameVI string `json:"name_vi"`
}

// DownloadLink is an uploaded document attached to a product.
type DownloadLink struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         string `json:"size"`
}

// Product is a bilingual catalog product.
type Product struct {
	ID                 int64          `json:"id,omitempty"`
	NameEN             string         `json:"name_en" validate:"required"`
	NameVI             string         `json:"name_vi" validate:"required"`
	DescriptionEN      string         `json:"description_en"`
	DescriptionVI      string         `json:"description_vi"`
	SummaryEN          string         `json:"summary_en"`
	SummaryVI          string         `json:"summary_vi"`
	ApplicationsEN     []string       `json:"applications_en"`
	ApplicationsVI     []string       `json:"applications_vi"`
	BuyLink            string         `json:"buy_link,omitempty" validate:"omitempty,url"`
	DocumentationLink  string         `json:"documentation_link,omitempty" validate:"omitempty,url"`
	ProductEnquiryLink string         `json:"product_enquiry_link,omitempty" validate:"omitempty,url"`
	CategoryID         *int64         `json:"category_id,omitempty"`
	Category           *RefName       `json:"category,omitempty"`
	IndustryIDs        []string       `json:"industry_ids"`
	Industries         []RefName      `json:"industries,omitempty"`
	DownloadLinks      []DownloadLink `json:"download_links"`
	DownloadThumb      string         `json:"download_thumb,omitempty"`
	Images             []string       `json:"images"`
	CreatedAt          string         `json:"created_at,omitempty"`
	UpdatedAt          string         `json:"updated_at,omitempty"`
}

// Name returns the bilingual product name.
func (p Product) Name() Localized { return Localized{EN: p.NameEN, VI: p.NameVI} }

// Post is a bilingual news post. Content fields hold HTML.
type Post struct {
	ID           int64  `json:"id,omitempty"`
	TitleEN      string `json:"title_en" validate:"required"`
	TitleVI      string `json:"title_vi" validate:"required"`
	ContentEN    string `json:"content_en"`
	ContentVI    string `json:"content_vi"`
	ThumbnailURL string `json:"thumbnail_url"`
	PublishedAt  string `json:"published_at"`
	Author       string `json:"author"`
	Views        int64  `json:"views" validate:"gte=0"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Title returns the bilingual post title.
func (p Post) Title() Localized { return Localized{EN: p.TitleEN, VI: p.TitleVI} }

// User is an admin account. IDs may be numeric or string.
type User struct {
	ID        any    `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
	LastLogin string `json:"lastLogin,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Credentials are exchanged for a bearer token.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token string `json:"token"`
}

// PasswordChange is the change-password request body.
type PasswordChange struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,nefield=OldPassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// UploadedImage is the upload/image response; ID is the image reference.
type UploadedImage struct {
	ID string `json:"id"`
}

// UploadedDocument is the upload/document response.
type UploadedDocument = DownloadLink
