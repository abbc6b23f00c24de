package arxiv

import "encoding/xml"

// Structs für die XML-Antwort der arXiv-API (Atom-Feed mit den
// Namespaces atom, arxiv und opensearch).
type Feed struct {
	XMLName      xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	TotalResults int      `xml:"http://a9.com/-/spec/opensearch/1.1/ totalResults"`
	Entries      []Entry  `xml:"http://www.w3.org/2005/Atom entry"`
}

type Entry struct {
	ID         string   `xml:"http://www.w3.org/2005/Atom id"`
	Title      *string  `xml:"http://www.w3.org/2005/Atom title"`
	Summary    *string  `xml:"http://www.w3.org/2005/Atom summary"`
	Published  string   `xml:"http://www.w3.org/2005/Atom published"`
	Links      []Link   `xml:"http://www.w3.org/2005/Atom link"`
	Authors    []Author `xml:"http://www.w3.org/2005/Atom author"`
	JournalRef *string  `xml:"http://arxiv.org/schemas/atom journal_ref"`
	DOI        string   `xml:"http://arxiv.org/schemas/atom doi"`
}

type Link struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type Author struct {
	Name string `xml:"http://www.w3.org/2005/Atom name"`
}
