// https://jisho.org/api/v1/search/words
package jisho

// Response is the top-level payload of a word search.
type Response struct {
	Meta Meta    `json:"meta"`
	Data []Entry `json:"data"`
}

type Meta struct {
	Status int `json:"status"`
}

// Entry is a single dictionary entry.
type Entry struct {
	Slug     string     `json:"slug"`
	IsCommon bool       `json:"is_common"`
	Japanese []Japanese `json:"japanese"`
	Senses   []Sense    `json:"senses"`
}

// Japanese holds one written form of the entry with its reading.
type Japanese struct {
	Word    string `json:"word"`
	Reading string `json:"reading"`
}

// Sense is one meaning group of an entry.
type Sense struct {
	EnglishDefinitions []string `json:"english_definitions"`
	PartsOfSpeech      []string `json:"parts_of_speech"`
	Tags               []string `json:"tags"`
}

// FirstReading returns the first non-empty reading of the entry, or "".
func (e Entry) FirstReading() string {
	for _, j := range e.Japanese {
		if j.Reading != "" {
			return j.Reading
		}
	}
	return ""
}
