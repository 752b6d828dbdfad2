package quote

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	quotes := r.Group("/quotes")
	{
		quotes.POST("", h.Open)
		quotes.POST("/calculate", h.Calculate)

		quotes.GET("/:id", h.Get)
		quotes.DELETE("/:id", h.Close)
		quotes.GET("/:id/live", h.Live)

		quotes.PUT("/:id/hall", h.SetHall)
		quotes.PUT("/:id/date", h.SetDate)
		quotes.PUT("/:id/tier", h.SetTier)
		quotes.PUT("/:id/meals/:mealId", h.SetMealCount)
		quotes.POST("/:id/options/:optionId/toggle", h.ToggleOption)
		quotes.POST("/:id/commands", h.ApplyCommand)
	}
}
