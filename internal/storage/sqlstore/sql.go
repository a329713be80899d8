package sqlstore

const insertUserSQL = `
INSERT INTO users (name, password, user_type)
VALUES (?, ?, ?)
`

const getUserSQL = `
SELECT user_id, name, password, user_type
FROM users
WHERE user_id = ?
`

const userTypeSQL = `SELECT user_type FROM users WHERE user_id = ?`

const countManagedHotelSQL = `
SELECT COUNT(*)
FROM hotel
WHERE manager_user_id = ? AND hotel_id = ?
`

const countRoomSQL = `SELECT COUNT(*) FROM rooms WHERE hotel_id = ? AND room_number = ?`

// lockRoomSQL gets the dialect's lock suffix appended.
const lockRoomSQL = `
SELECT hotel_id, room_number, price, image_url
FROM rooms
WHERE hotel_id = ? AND room_number = ?`

const countBookingSQL = `
SELECT COUNT(*)
FROM room_bookings
WHERE hotel_id = ? AND room_number = ? AND booking_date = ?
`

const insertBookingSQL = `
INSERT INTO room_bookings (customer_id, hotel_id, room_number, booking_date)
VALUES (?, ?, ?, ?)
`

// Scoped to the hotel: a room number alone is not a key.
const updateRoomSQL = `
UPDATE rooms
SET price = ?, image_url = ?
WHERE hotel_id = ? AND room_number = ?
`

const insertUpdateLogSQL = `
INSERT INTO room_updates_log (manager_id, hotel_id, room_number, updated_on)
VALUES (?, ?, ?, ?)
`

const insertRepairSQL = `
INSERT INTO room_repairs (company_id, hotel_id, room_number, repair_date)
VALUES (?, ?, ?, ?)
`

const insertRepairRequestSQL = `
INSERT INTO room_repair_requests (manager_id, repair_id)
VALUES (?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listHotelsSQL = `
SELECT hotel_id, hotel_name, latitude, longitude, date_established, manager_user_id
FROM hotel
ORDER BY hotel_id
`

const availableRoomsSQL = `
SELECT r.hotel_id, r.room_number, r.price, r.image_url
FROM rooms r
WHERE r.hotel_id = ?
  AND NOT EXISTS (
    SELECT 1 FROM room_bookings b
    WHERE b.hotel_id = r.hotel_id AND b.room_number = r.room_number AND b.booking_date = ?
  )
ORDER BY r.room_number
`

// Ascending sort then limit: yields the customer's oldest bookings, shown in
// ascending date order.
const oldestBookingsSQL = `
SELECT b.hotel_id, b.room_number, b.booking_date, r.price
FROM room_bookings b
JOIN rooms r ON r.hotel_id = b.hotel_id AND r.room_number = b.room_number
WHERE b.customer_id = ?
ORDER BY b.booking_date ASC, b.booking_id ASC
LIMIT ?
`

// Ties on the count are broken by name, then id, so the ranking does not
// depend on the engine's grouping order.
const regularCustomersSQL = `
SELECT u.user_id, u.name, COUNT(*) AS num_bookings
FROM room_bookings b
JOIN users u ON u.user_id = b.customer_id
WHERE b.hotel_id = ?
GROUP BY u.user_id, u.name
ORDER BY num_bookings DESC, u.name ASC, u.user_id ASC
LIMIT ?
`

const hotelBookingsSQL = `
SELECT b.booking_id, u.name, b.hotel_id, b.room_number, b.booking_date
FROM room_bookings b
JOIN users u ON u.user_id = b.customer_id
JOIN hotel h ON h.hotel_id = b.hotel_id
WHERE (? OR h.manager_user_id = ?)
  AND b.booking_date >= ? AND b.booking_date <= ?
ORDER BY b.booking_date ASC, b.booking_id ASC
`

// Latest entries first inside, shown oldest first.
const recentUpdatesSQL = `
SELECT update_number, hotel_id AS hotel, room_number AS room, updated_on
FROM (
  SELECT update_number, hotel_id, room_number, updated_on
  FROM room_updates_log
  WHERE manager_id = ?
  ORDER BY updated_on DESC, update_number DESC
  LIMIT ?
) last_updates
ORDER BY updated_on ASC, update_number ASC
`

const repairHistorySQL = `
SELECT a.company_id AS company, a.hotel_id AS hotel, a.room_number AS room, a.repair_date
FROM room_repairs a
JOIN room_repair_requests b ON a.repair_id = b.repair_id
WHERE b.manager_id = ?
ORDER BY a.repair_date ASC, a.repair_id ASC
`
