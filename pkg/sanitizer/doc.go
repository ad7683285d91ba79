// Package sanitizer normalises user input before validation and storage.
//
// All functions are idempotent: applying them twice gives the same result as
// applying them once. Invalid input is passed through or emptied rather than
// reported, leaving rejection to the validators.
//
// Normalisation includes:
//   - Seat numbers: upper-case, whitespace removed ("a 1" becomes "A1")
//   - Names and free text: whitespace collapsed and trimmed
//   - Labels and categories: lower-case snake case ("Room Rent" becomes "room_rent")
//   - Phone numbers: E.164 (+[country][number])
package sanitizer
