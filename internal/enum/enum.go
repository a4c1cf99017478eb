package enum

// ── Menu catalog (validated at catalog load) ──

const (
	SectionDrinks   = "drinks"
	SectionMeals    = "meals"
	SectionDesserts = "desserts"
)

const (
	TagPopular  = "popular"
	TagSeasonal = "seasonal"
	TagNew      = "new"
)

// Modifier group selection disciplines. Radio and select both mean
// exactly-one; select renders as a dropdown.
const (
	GroupTypeRadio    = "radio"
	GroupTypeSelect   = "select"
	GroupTypeCheckbox = "checkbox"
)

// ── Form submissions (CHECK constrained in DB) ──

const (
	SubmissionStatusNew      = "NEW"
	SubmissionStatusRead     = "READ"
	SubmissionStatusArchived = "ARCHIVED"
)

const (
	SubscriberStatusActive       = "ACTIVE"
	SubscriberStatusUnsubscribed = "UNSUBSCRIBED"
)
