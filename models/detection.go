package models

// Box is a labelled detection in original image pixels.
type Box struct {
	Label string `json:"label"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	X2    int    `json:"x2"`
	Y2    int    `json:"y2"`
}

type DetectionResult struct {
	DetectedIssue string   `json:"detected_issue"`
	Suggestion    string   `json:"suggestion"`
	Labels        []string `json:"labels"`
	Boxes         []Box    `json:"boxes"`
}
