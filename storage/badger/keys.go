package badger

import "fmt"

// Key prefixes for the record data and its uniqueness index
const (
	recordPrefix     = "rec"
	recordTitleIndex = "recti"
)

// makeRecordKey generates the primary key for a record by ID.
func makeRecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", recordPrefix, id))
}

// makeTitleKey generates the title-uniqueness index key.
// The value stored under it is the owning record's ID.
func makeTitleKey(title string) []byte {
	return []byte(fmt.Sprintf("%s:%s", recordTitleIndex, title))
}
