package dto

type ContactOption struct {
	Label string `json:"label"`
	HRef  string `json:"href"`
}

type ContactOptionsResponse struct {
	Kind    string          `json:"kind"`
	Display string          `json:"display,omitempty"`
	Options []ContactOption `json:"options"`
}
