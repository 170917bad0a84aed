// Package model defines the typed form model consumed by renderers and the
// runtime form. Builders reside in internal/model but return the types
// defined here.
//
// Every question becomes one Field in display order. Multi-valued questions
// (MultipleChoice, and Dropdown with Multiple set) are FieldKindGroup fields
// holding one boolean slot per option. Validation rules expose canonical
// identifiers (required, min/max, minLength/maxLength, pattern,
// minDate/maxDate, acceptedFileTypes, maxSize) with string parameters so
// renderers can map them onto HTML attributes and pkg/validation can compile
// them into validators.
package model
