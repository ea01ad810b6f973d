package models

// ArticleStats holds the view and like counters of one article.
// Likes always equals len(LikedBy).
type ArticleStats struct {
	Views   int      `json:"views"`
	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`
}

// ReadingListToggle is the outcome of saving or unsaving an article
type ReadingListToggle struct {
	Saved bool     `json:"saved"`
	List  []string `json:"list"`
}

// UploadResult describes a stored cover image
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// SiteTotals are the site-wide counts served by the metrics endpoint
type SiteTotals struct {
	Users     int `json:"users"`
	Articles  int `json:"articles"`
	Published int `json:"published"`
	Views     int `json:"views"`
	Likes     int `json:"likes"`
}
