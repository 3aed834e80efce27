package memoryRepo

import (
	"time"

	orderRepo "plantco/database/repository/order"
	"plantco/models"
)

func orderChange(st models.OrderStatus) orderRepo.StatusChange {
	return orderRepo.StatusChange{
		Status: st,
		Entry:  models.TimelineEntry{ID: string(st), Status: st, Date: time.Now().UTC()},
	}
}
