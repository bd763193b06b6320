package manifest

// Manifest is the output of a gallery build: photo records in traversal order
// plus build statistics that are reported but never serialized.
type Manifest struct {
	Photos []Photo
	Stats  Stats
}

// Photo is one gallery entry as consumed by the presentation layer.
type Photo struct {
	ID        int    `json:"id"`        // 1..N in traversal order
	Src       string `json:"src"`       // web path of the original
	Thumbnail string `json:"thumbnail"` // web path of the preview
	Title     string `json:"title"`
	Width     int    `json:"width"`  // 0 when unknown
	Height    int    `json:"height"` // 0 when unknown
	Category  string `json:"category"`
	Exif      Exif   `json:"exif"`
}

// Exif holds display-ready camera settings.
type Exif struct {
	Camera   string `json:"camera"`
	Lens     string `json:"lens"`
	ISO      string `json:"iso"`
	Aperture string `json:"aperture"`
	Shutter  string `json:"shutter"`
}

// Stats aggregates build metrics.
type Stats struct {
	TotalPhotos      int
	OriginalsUpdated int
	PreviewsWritten  int
	PreviewsSkipped  int
	PreviewsFailed   int
	Warnings         int
	Categories       map[string]int
}

// Placeholders used when a photo carries no camera or lens tags.
const (
	UnknownCamera = "Unknown Camera"
	UnknownLens   = "Unknown Lens"
)
