package rest

import (
	"github.com/gofiber/fiber/v2"
	"tryon/api/model"
	"tryon/sizeguide"
)

type SizeGuideController struct{}

func NewSizeGuideController(app *fiber.App) *SizeGuideController {
	s := &SizeGuideController{}

	app.Get("/size-guide/:category", s.Chart)
	app.Get("/size-guide/:category/:size", s.Size)

	return s
}

// Chart returns the full measurement chart
//
//	@Summary	Size chart for a category
//	@Tags		size-guide
//	@Produce	json
//	@Param		category	path		string	true	"men, women, boys or girls"
//	@Success	200			{object}	sizeguide.Chart
//	@Router		/size-guide/{category} [get]
func (s *SizeGuideController) Chart(c *fiber.Ctx) error {
	category := sizeguide.MakeFromString(c.Params("category"))

	return c.JSON(sizeguide.ChartFor(category))
}

// Size returns the measurements of a single size
//
//	@Summary	Measurements of one size
//	@Tags		size-guide
//	@Produce	json
//	@Param		category	path		string	true	"men, women, boys or girls"
//	@Param		size		path		string	true	"XS to XXL"
//	@Success	200			{object}	sizeguide.Measurement
//	@Failure	404			{object}	model.ErrorResponse
//	@Router		/size-guide/{category}/{size} [get]
func (s *SizeGuideController) Size(c *fiber.Ctx) error {
	category := sizeguide.MakeFromString(c.Params("category"))

	m, err := sizeguide.Lookup(category, c.Params("size"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(model.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(m)
}
