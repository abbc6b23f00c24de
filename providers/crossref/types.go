package crossref

// Structs für die JSON-Antwort der Crossref-API (/works).
type Response struct {
	Status  string   `json:"status"`
	Message *Message `json:"message"`
}

type Message struct {
	TotalResults int    `json:"total-results"`
	Items        []Item `json:"items"`
}

type Item struct {
	DOI                 string        `json:"DOI"`
	Title               []string      `json:"title"`
	Abstract            *string       `json:"abstract"`
	PublishedPrint      *DateParts    `json:"published-print"`
	PublishedOnline     *DateParts    `json:"published-online"`
	Issued              *DateParts    `json:"issued"`
	ContainerTitle      []string      `json:"container-title"`
	Author              []Contributor `json:"author"`
	IsReferencedByCount int           `json:"is-referenced-by-count"`
}

// DateParts enthält z.B. [[2020, 5]]; einzelne Teile können null sein.
type DateParts struct {
	DateParts [][]*int `json:"date-parts"`
}

type Contributor struct {
	Given  string `json:"given"`
	Family string `json:"family"`
	Name   string `json:"name"`
	ORCID  string `json:"ORCID"`
}
