package common

// Name sets from the vCard 2.1 specification. Real-world producers use
// property names, TYPE values and VALUE values outside these sets all the
// time; the parser warns once per offender and keeps going, so those sets
// exist for diagnostics and for the BASE64 lookahead, not for enforcement.
// AvailableEncodings is the exception: it is enforced.

// KnownPropertyNames are the property names defined by vCard 2.1. ADR, ORG,
// N and AGENT are dispatched on their own paths before this set is consulted
// and are deliberately absent.
var KnownPropertyNames = newSet(
	"BEGIN", "END", "LOGO", "PHOTO", "LABEL", "FN", "TITLE", "SOUND",
	"VERSION", "TEL", "EMAIL", "TZ", "GEO", "NOTE", "URL",
	"BDAY", "ROLE", "REV", "UID", "KEY", "MAILER",
)

// KnownTypeValues are the values defined for the TYPE parameter.
var KnownTypeValues = newSet(
	"DOM", "INTL", "POSTAL", "PARCEL", "HOME", "WORK", "PREF",
	"VOICE", "FAX", "MSG", "CELL", "PAGER", "BBS", "MODEM", "CAR",
	"ISDN", "VIDEO", "AOL", "APPLELINK", "ATTMAIL", "CIS", "EWORLD",
	"INTERNET", "IBMMAIL", "MCIMAIL", "POWERSHARE", "PRODIGY", "TLX",
	"X400", "GIF", "CGM", "WMF", "BMP", "MET", "PMB", "DIB", "PICT",
	"TIFF", "PDF", "PS", "JPEG", "QTIME", "MPEG", "MPEG2", "AVI",
	"WAVE", "AIFF", "PCM", "X509", "PGP",
)

// KnownValueValues are the values defined for the VALUE parameter.
var KnownValueValues = newSet("INLINE", "URL", "CONTENT-ID", "CID")

// AvailableEncodings are the ENCODING values the parser accepts. Anything
// else that is not X- prefixed fails the parse.
var AvailableEncodings = newSet("7BIT", "8BIT", "QUOTED-PRINTABLE", "BASE64", "B")

func newSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
