package domain

// ShapeKind is the geometry kind of an occlusion mask.
type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeEllipse ShapeKind = "ellipse"
)

// OcclusionShape is one masked region over an image. Coordinates are
// fractions of the image size, as declared in the occlusion marker.
type OcclusionShape struct {
	Index  int
	Kind   ShapeKind
	Left   float64
	Top    float64
	Width  float64
	Height float64
}
