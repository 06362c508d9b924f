package models

// Text purposes recognised for additional per-user files. The purpose names
// the copy category an uploaded sample trains or describes.
const (
	PurposeProductIntroduction = "product_introduction"
	PurposeBlogContent         = "preferred_blog_content"
	PurposePressRelease        = "preferred_press_release_content"
	PurposeAdCopy              = "learning_ad_copy"
	PurposeEmail               = "learning_email"
)

// TextPurposes lists the recognised additional-file categories in a stable
// order for API responses.
var TextPurposes = []string{
	PurposeProductIntroduction,
	PurposeBlogContent,
	PurposePressRelease,
	PurposeAdCopy,
	PurposeEmail,
}

// AdditionalText is a named user-supplied text within a purpose category.
type AdditionalText struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// UserTexts is the full set of persisted texts for one user: the two
// generated intros plus additional files grouped by purpose.
type UserTexts struct {
	CompanyIntro    string                      `json:"company_intro"`
	BrandIntro      string                      `json:"brand_intro"`
	AdditionalFiles map[string][]AdditionalText `json:"additional_files"`
}

// GeneratedCopy is the result of one generation run over uploaded documents.
type GeneratedCopy struct {
	CompanyIntro string `json:"company_intro"`
	BrandIntro   string `json:"brand_intro"`
}
