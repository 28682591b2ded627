package model

import "tryon/converter"

type TryOnRequest struct {
	UserImage           string `json:"userImage"`
	ClothingDescription string `json:"clothingDescription"`
	ClothingImageURL    string `json:"clothingImageUrl,omitempty"`
}

// TryOnResult is the outcome of a whole fallback chain. ResultImage is set
// iff Success; ErrorReason is the caller facing text of Err.
type TryOnResult struct {
	Success     bool
	ResultImage converter.Payload
	Message     string
	Provider    string

	ErrorReason string
	Err         error
}

type TryOnResponse struct {
	Success     bool   `json:"success"`
	ResultImage string `json:"resultImage,omitempty"`
	Message     string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (r TryOnResult) Response() TryOnResponse {
	resp := TryOnResponse{Success: r.Success, Message: r.Message}
	if r.Success {
		resp.ResultImage = r.ResultImage.DataURI()
	}
	return resp
}
