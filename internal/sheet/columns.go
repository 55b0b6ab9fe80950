package sheet

import "fmt"

// Field names the logical columns of the lead sheet. All storage
// addressing goes through columnOf so a schema change is a one-place
// edit.
type Field string

const (
	FieldClaimedAt      Field = "claimed_at"
	FieldStatus         Field = "status"
	FieldFirstName      Field = "first_name"
	FieldLastName       Field = "last_name"
	FieldEmail          Field = "email"
	FieldCity           Field = "city"
	FieldBusinessName   Field = "business_name"
	FieldWebsite        Field = "website"
	FieldScore          Field = "score"
	FieldPrimaryColor   Field = "primary_color"
	FieldSecondaryColor Field = "secondary_color"
	FieldScreenshotURL  Field = "screenshot_url"
	FieldPreviewURL     Field = "preview_url"
	FieldEmailBody      Field = "email_body"
	FieldNotes          Field = "notes"
)

// columnOf maps each logical field to its sheet column letter.
var columnOf = map[Field]string{
	FieldClaimedAt:      "A",
	FieldStatus:         "B",
	FieldFirstName:      "C",
	FieldLastName:       "D",
	FieldEmail:          "E",
	FieldCity:           "F",
	FieldBusinessName:   "G",
	FieldWebsite:        "H",
	FieldScore:          "I",
	FieldPrimaryColor:   "J",
	FieldSecondaryColor: "K",
	FieldScreenshotURL:  "L",
	FieldPreviewURL:     "M",
	FieldEmailBody:      "N",
	FieldNotes:          "O",
}

// indexOf maps each logical field to its 0-based position within a row
// returned by a full-width read.
var indexOf = map[Field]int{
	FieldClaimedAt:      0,
	FieldStatus:         1,
	FieldFirstName:      2,
	FieldLastName:       3,
	FieldEmail:          4,
	FieldCity:           5,
	FieldBusinessName:   6,
	FieldWebsite:        7,
	FieldScore:          8,
	FieldPrimaryColor:   9,
	FieldSecondaryColor: 10,
	FieldScreenshotURL:  11,
	FieldPreviewURL:     12,
	FieldEmailBody:      13,
	FieldNotes:          14,
}

// leadRange is the full width of a lead row.
const leadRange = "A:O"

// A1 returns the A1-notation address of a field in the given row.
func A1(field Field, row int) string {
	return fmt.Sprintf("%s%d", columnOf[field], row)
}

// cell returns the value at the field's position in a row slice, or ""
// when the row is too short (trailing empty cells are omitted by the
// values API).
func cell(row []string, field Field) string {
	idx := indexOf[field]
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
