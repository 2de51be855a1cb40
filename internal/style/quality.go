package style

import "strings"

// Quality selects canvas dimensions and remote sampling steps.
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHD       Quality = "hd"
	QualityUltraHD  Quality = "ultrahd"
)

// Dimensions carries the raster parameters for one quality level.
type Dimensions struct {
	Width  int
	Height int
	Steps  int
}

var qualityDims = map[Quality]Dimensions{
	QualityStandard: {Width: 1024, Height: 1024, Steps: 30},
	QualityHD:       {Width: 1152, Height: 896, Steps: 40},
	QualityUltraHD:  {Width: 1536, Height: 640, Steps: 50},
}

// Dimensions resolves the raster parameters for q. Unknown values map to the
// standard level.
func (q Quality) Dimensions() Dimensions {
	if d, ok := qualityDims[q]; ok {
		return d
	}
	return qualityDims[QualityStandard]
}

// ParseQuality sanitizes free-form input into a supported quality level. The
// original Chinese labels remain accepted.
func ParseQuality(s string) Quality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(QualityHD), "高清":
		return QualityHD
	case string(QualityUltraHD), "ultra-hd", "超清":
		return QualityUltraHD
	default:
		return QualityStandard
	}
}
