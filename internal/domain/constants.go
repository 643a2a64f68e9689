package domain

// Zone boundaries in drive-time minutes
const (
	ZoneAMaxDriveMins = 25
	ZoneBMaxDriveMins = 45
	ZoneCMaxDriveMins = 60
)

// Scheduling constants
const (
	WorkdayStartHour = 6  // first slot at 06:00 local
	WorkdayEndHour   = 22 // last slot starts before 22:00 local

	SlotStepMinutes   = 30
	BookingWindowDays = 30 // bookable days ahead, inclusive

	MinTravelBufferMins = 30
	MaxTravelBufferMins = 180

	DefaultPendingTTLMinutes = 30
)

// Pricing constants, amounts in whole GBP
const (
	OutOfHoursSurchargeGBP = 20 // starts before 08:00 or at/after 19:00
	LateNightSurchargeGBP  = 40 // additional for 21:00 diagnostic callouts

	EarlyHourThreshold     = 8
	LateHourThreshold      = 19
	LateNightHourThreshold = 21

	StandardDepositGBP = 30
	RaisedDepositGBP   = 50 // Zone C or priority triage bundles
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает слот.
// Завершенные выезды слот не блокируют: техник уже уехал.
var ActiveStatuses = []BookingStatus{
	StatusPendingDeposit,
	StatusDepositPaid,
}
