// Package survey defines the survey schema: the Question tagged union and its
// per-type payloads, the declarative Validation bag, dormant ConditionalLogic
// rules, and the Response/Answer submission contract. Answers are carried as
// Value, a tagged union scoped to the question's declared type.
//
// Questions encode to a flat JSON/YAML object whose "type" key selects the
// payload, matching the shape used by browser clients:
//
//	{"id": "q3", "type": "Rating", "text": "...", "order": 3, "scale": 5}
//
// Display order follows the Order field (see Survey.Ordered), not the position
// in Questions.
package survey
