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

import "errors"

// Construction errors. These are reported synchronously by NewRecord,
// before any storage operation begins, and never reach a store.
var (
	// ErrInvalidRecord indicates a Record failed validation.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrEmptyId indicates the Id field is empty.
	ErrEmptyId = errors.New("record ID cannot be empty")

	// ErrTitleTooShort indicates the Title has fewer than MinTitleLen runes.
	ErrTitleTooShort = errors.New("record title too short")

	// ErrTitleTooLong indicates the Title has more than MaxTitleLen runes.
	ErrTitleTooLong = errors.New("record title too long")

	// ErrNilData indicates the Data field is nil.
	ErrNilData = errors.New("record data cannot be nil")
)
