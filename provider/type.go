package provider

import "fmt"

type Name struct {
	s string
}

var (
	ChatImageEdit = Name{"chat-image-edit"}
	InstructEdit  = Name{"instruct-edit"}
	TextToImage   = Name{"text-to-image"}
)

func (n Name) String() string {
	return n.s
}

func MakeFromString(s string) (Name, error) {
	switch s {
	case ChatImageEdit.s:
		return ChatImageEdit, nil
	case InstructEdit.s:
		return InstructEdit, nil
	case TextToImage.s:
		return TextToImage, nil
	}

	return Name{}, fmt.Errorf("unknown provider: %s", s)
}

// EditsPhoto reports whether the provider preserves the person in the photo.
// TextToImage only renders a generic preview.
func (n Name) EditsPhoto() bool {
	return n == ChatImageEdit || n == InstructEdit
}
