package types

// ID is an opaque string identifier (UUIDs for quotes, Firestore document ids for bookings).
type ID string
