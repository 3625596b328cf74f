package models

// ReferencesModel carries the lines and stations an entry or list refers to.
type ReferencesModel struct {
	Lines    []Line    `json:"lines"`
	Stations []Station `json:"stations"`
}

// NewEmptyReferences creates a References model with initialized empty slices
func NewEmptyReferences() ReferencesModel {
	return ReferencesModel{
		Lines:    []Line{},
		Stations: []Station{},
	}
}

// AddStation appends s unless a station with the same ID is present.
func (r *ReferencesModel) AddStation(s Station) {
	for _, existing := range r.Stations {
		if existing.ID == s.ID {
			return
		}
	}
	r.Stations = append(r.Stations, s)
}

// AddLine appends l unless a line with the same ID is present.
func (r *ReferencesModel) AddLine(l Line) {
	for _, existing := range r.Lines {
		if existing.ID == l.ID {
			return
		}
	}
	r.Lines = append(r.Lines, l)
}
