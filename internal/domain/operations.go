package domain

import "time"

type RoomUpdateLog struct {
	ID         int64
	ManagerID  int64
	HotelID    int64
	RoomNumber int64
	UpdatedOn  time.Time
}

type RoomRepair struct {
	ID         int64
	CompanyID  int64
	HotelID    int64
	RoomNumber int64
	RepairDate time.Time
}

type RoomRepairRequest struct {
	ID        int64
	ManagerID int64
	RepairID  int64
}

// RoomChange is a validated price/image update for one room.
type RoomChange struct {
	HotelID    int64
	RoomNumber int64
	Price      float64
	ImageURL   string
}

// RepairOrder is a validated repair filing.
type RepairOrder struct {
	HotelID    int64
	RoomNumber int64
	CompanyID  int64
}

// RepairReceipt links the repair row and the request row written together.
type RepairReceipt struct {
	RepairID  int64
	RequestID int64
	Date      time.Time
}

type RegularCustomer struct {
	CustomerID int64
	Name       string
	Bookings   int
}

type DateRange struct{ From, To time.Time }
