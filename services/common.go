package services

import (
	"errors"

	"bitacoras-backend/utils"

	"gorm.io/gorm"
)

// first loads one row into dest and turns gorm.ErrRecordNotFound into a 404
// carrying notFound.
func first(q *gorm.DB, dest interface{}, notFound string, conds ...interface{}) error {
	if err := q.First(dest, conds...).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(notFound)
		}
		return err
	}
	return nil
}

func isAppError(err error) bool {
	var appErr *utils.AppError
	return errors.As(err, &appErr)
}

// Paginacion normalizes page and limit query values.
func Paginacion(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
