package provider

import "fmt"

func editPrompt(r Request) string {
	prompt := fmt.Sprintf(
		"Edit this photo so the person is wearing %s. Keep the person's face, body, pose and the background exactly the same and only change the clothing. The result must look natural and photorealistic.",
		r.ClothingDescription,
	)
	if r.ClothingImageURL != "" {
		prompt += " Use the second image as the reference for the garment's color, fabric and cut."
	}
	return prompt
}

func instructPrompt(r Request) string {
	return fmt.Sprintf("change the clothing to %s, keep the same person, pose and background", r.ClothingDescription)
}

func previewPrompt(r Request) string {
	return fmt.Sprintf(
		"A professional fashion photography photo of a person wearing %s. Full body shot, studio lighting, white background, high quality fashion catalog style, realistic and detailed clothing texture.",
		r.ClothingDescription,
	)
}
