// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"unicode/utf8"
)

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Title must be MinTitleLen to MaxTitleLen runes, inclusive
//   - Data must not be nil (zero-length payloads are allowed)
func ValidateRecord(r *Record) error {
	if r == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if r.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyId)
	}

	if n := utf8.RuneCountInString(r.Title); n < MinTitleLen {
		return fmt.Errorf("%w: %w (%d runes)", ErrInvalidRecord, ErrTitleTooShort, n)
	} else if n > MaxTitleLen {
		return fmt.Errorf("%w: %w (%d runes)", ErrInvalidRecord, ErrTitleTooLong, n)
	}

	if r.Data == nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNilData)
	}

	return nil
}
