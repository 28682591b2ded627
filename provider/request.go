package provider

import "tryon/converter"

// Request is a validated try-on request as seen by a provider.
type Request struct {
	UserImage           converter.Payload
	ClothingDescription string
	// ClothingImageURL is an http(s) or data URI, already resolved.
	ClothingImageURL string
}
