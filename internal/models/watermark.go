package models

type WatermarkRequest struct {
	Text     string  `json:"text" validate:"required"`
	Position string  `json:"position" validate:"omitempty,oneof=top-left top-right bottom-left bottom-right center"`
	Opacity  float64 `json:"opacity" validate:"min=0,max=1"`
}
