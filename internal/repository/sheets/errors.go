package sheets

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Describe turns a repository error into a short message for the console.
// Google API failures are mapped by status code; other errors keep their text.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch {
	case apiErr.Code == http.StatusUnauthorized:
		return "the service account credentials were rejected"
	case apiErr.Code == http.StatusForbidden:
		return "permission denied; share the spreadsheet with the service account"
	case apiErr.Code == http.StatusNotFound:
		return "spreadsheet not found; check GOOGLE_SHEET_DATABASE_ID"
	case apiErr.Code == http.StatusTooManyRequests:
		return "rate limited by Google Sheets API; try again shortly"
	case apiErr.Code >= http.StatusInternalServerError:
		return "Google Sheets is unavailable right now; try again later"
	case apiErr.Message != "":
		return apiErr.Message
	default:
		return err.Error()
	}
}
