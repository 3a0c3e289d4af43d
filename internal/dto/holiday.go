package dto

// HolidayRequest registers one holiday.
type HolidayRequest struct {
	Date        string `json:"date" validate:"required,meal_date"`
	Description string `json:"description"`
}

// HolidayImportRequest replaces a year's calendar from an external source.
type HolidayImportRequest struct {
	Year     int              `json:"year" validate:"required,min=1900,max=9999"`
	Source   string           `json:"source"`
	Holidays []HolidayRequest `json:"holidays" validate:"required,min=1,dive"`
}
