package models

// DynamoDB tables
const (
	PartiesTable      = "Parties"
	ResponsesTable    = "PartyResponses"
	ResponseKeysTable = "PartyResponseKeys"
)

// Attendance values
const (
	AttendancePresent    = "Present"
	AttendanceNotPresent = "Not Present"
)

// Drinker values
const (
	DrinkerYes = "Drinker"
	DrinkerNo  = "Non-Drinker"
)

// Drink preferences
const (
	DrinkBeer      = "Beer"
	DrinkWhisky    = "Whisky"
	DrinkCocktails = "Cocktails"
	DrinkMocktails = "Mocktails"
	DrinkWine      = "Wine"
)

// NotApplicable is stored for drinker and drinkPreference when the forcing rules apply
const NotApplicable = "Not Applicable"

// LocationNotSpecified is stored when a party is created without a location
const LocationNotSpecified = "Not specified"

// Placeholder for optional columns in the CSV export
const Placeholder = "N/A"

// Event channel and types published on it
const (
	EventChannelRSVP       = "rsvp"
	EventPartyCreated      = "party_created"
	EventResponseSubmitted = "response_submitted"
)

var drinkPreferences = map[string]bool{
	DrinkBeer:      true,
	DrinkWhisky:    true,
	DrinkCocktails: true,
	DrinkMocktails: true,
	DrinkWine:      true,
}

// IsDrinkPreference reports whether v is a selectable drink
func IsDrinkPreference(v string) bool {
	return drinkPreferences[v]
}
