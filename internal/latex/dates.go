package latex

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dmoreno/cv-studio/internal/types"
)

var monthsShortES = [12]string{"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic"}

var monthsLongES = [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

var monthsShortEN = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

var monthsLongEN = [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}

// FormatDate renders a YYYY, YYYY-MM or YYYY-MM-DD date string in the
// requested format and locale. Unparseable input is returned escaped
// verbatim so a typo never breaks the document.
func FormatDate(raw string, format types.DateFormat, locale types.Locale) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parts := strings.SplitN(raw, "-", 3)
	year, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 4 {
		return Escape(raw)
	}
	if len(parts) == 1 {
		return strconv.Itoa(year)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Escape(raw)
	}

	switch format {
	case types.DateFormatNumeric:
		return fmt.Sprintf("%02d/%d", month, year)
	case types.DateFormatLong:
		if locale == types.LocaleEnglish {
			return fmt.Sprintf("%s %d", monthsLongEN[month-1], year)
		}
		return fmt.Sprintf("%s de %d", monthsLongES[month-1], year)
	default:
		if locale == types.LocaleEnglish {
			return fmt.Sprintf("%s %d", monthsShortEN[month-1], year)
		}
		return fmt.Sprintf("%s %d", monthsShortES[month-1], year)
	}
}

// FormatDateRange renders "start -- end", using the locale's word for the
// present when the entry is ongoing. An entry with neither boundary renders
// as the empty string.
func FormatDateRange(start, end string, current bool, format types.DateFormat, locale types.Locale) string {
	from := FormatDate(start, format, locale)
	to := FormatDate(end, format, locale)
	if current {
		if locale == types.LocaleEnglish {
			to = "Present"
		} else {
			to = "Presente"
		}
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + " -- " + to
	}
}
