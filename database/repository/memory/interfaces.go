package memoryRepo

import (
	"plantco/database"
	bookingRepo "plantco/database/repository/booking"
	catalogRepo "plantco/database/repository/catalog"
	counterRepo "plantco/database/repository/counter"
	effectsRepo "plantco/database/repository/effects"
	orderRepo "plantco/database/repository/order"
	productRepo "plantco/database/repository/product"
	reviewRepo "plantco/database/repository/review"
	userRepo "plantco/database/repository/user"
)

var (
	_ database.Transactor           = (*Store)(nil)
	_ productRepo.ProductRepository = (*Products)(nil)
	_ orderRepo.OrderRepository     = (*Orders)(nil)
	_ bookingRepo.BookingRepository = (*Bookings)(nil)
	_ userRepo.UserRepository       = (*Users)(nil)
	_ catalogRepo.CatalogRepository = (*Catalog)(nil)
	_ reviewRepo.ReviewRepository   = (*Reviews)(nil)
	_ counterRepo.CounterRepository = (*Counters)(nil)
	_ effectsRepo.EffectRepository  = (*Effects)(nil)
)
