package handlers

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"restaurant-pos/models"
)

var registerOnce sync.Once

// RegisterValidators adds the menu_category, table_status and order_status
// binding tags to gin's validator
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("menu_category", func(fl validator.FieldLevel) bool {
			return models.MenuCategory(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("table_status", func(fl validator.FieldLevel) bool {
			return models.TableStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return models.OrderStatus(fl.Field().String()).Valid()
		})
	})
}
