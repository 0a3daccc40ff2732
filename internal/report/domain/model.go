package domain

// Format selects the output serialization of a report.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatTXT  Format = "txt"
)

// ParseFormat validates a raw format value; empty defaults to PDF.
func ParseFormat(raw string) (Format, bool) {
	switch Format(raw) {
	case "":
		return FormatPDF, true
	case FormatPDF:
		return FormatPDF, true
	case FormatXLSX:
		return FormatXLSX, true
	case FormatTXT:
		return FormatTXT, true
	default:
		return "", false
	}
}

// RequestingUser stamps report headers when the caller is authenticated.
// Absence is valid; reports render without the stamp.
type RequestingUser struct {
	Name  string
	TaxID string
}

// Request describes one report generation call.
type Request struct {
	Codes     []string
	Format    Format
	Selection Selection
	User      *RequestingUser
}

// Row is one rendered line: an NCM joined to one of its classifications,
// with display-ready rates. Rows are built per request and discarded after
// rendering.
type Row struct {
	NcmCode        string
	NcmDescription string
	Cst            string
	ClassCode      string // zero-padded display form
	IbsRate        string
	CbsRate        string
}

// Document is a rendered report ready to stream back to the client.
type Document struct {
	Bytes       []byte
	ContentType string
	Filename    string
}
