package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"

	"billflow/internal/validator"
)

var registerRules sync.Once

// RegisterBindingRules adds the gstin, hsn and isodate tags to gin's validator.
// It is safe to call more than once.
func RegisterBindingRules() {
	registerRules.Do(func() {
		v, ok := binding.Validator.Engine().(*playground.Validate)
		if !ok {
			return
		}
		if err := validator.RegisterFieldRules(v); err != nil {
			panic(err)
		}
	})
}

// bindJSON decodes the request body into dst and runs its binding rules.
// Returns false if it fails (error response already written).
func bindJSON(c *gin.Context, dst any) bool {
	RegisterBindingRules()
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validator.Describe(err).Error())
		return false
	}
	return true
}
