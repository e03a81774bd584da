package domain

import "github.com/paulmach/orb"

// StatusInOperation - значение статуса линии "в эксплуатации"
const StatusInOperation = "Exploitée"

// LineSegment - участок линии между двумя километровыми отметками
type LineSegment struct {
	LineCode    string       `json:"line_code"`
	StatusLabel string       `json:"status_label"`
	Geometry    orb.Geometry `json:"-"`
	StartMarker string       `json:"start_marker"`
	EndMarker   string       `json:"end_marker"`
}

// SpeedSegment - участок с номинальной максимальной скоростью
type SpeedSegment struct {
	LineCode    string       `json:"line_code"`
	LineLabel   string       `json:"line_label"`
	MaxSpeed    *int64       `json:"max_speed,omitempty"`
	Geometry    orb.Geometry `json:"-"`
	StartMarker string       `json:"start_marker"`
	EndMarker   string       `json:"end_marker"`
}

// JoinedSegment - результат пространственного объединения участка линии и скорости
type JoinedSegment struct {
	LineCode  string       `json:"line_code" db:"line_code"`
	Geometry  orb.Geometry `json:"-" db:"-"`
	MaxSpeed  *int64       `json:"max_speed,omitempty" db:"max_speed"`
	LineLabel string       `json:"line_label" db:"line_label"`
}
