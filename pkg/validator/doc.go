// Package validator provides small composable validation rules.
//
// A Rule pairs a check with the ValidationError it reports. Apply runs all
// rules and returns a ValidationErrors value listing every failure, so a
// client sees all bad fields at once:
//
//	err := validator.Apply(
//		validator.Required("title", in.Title),
//		validator.MaxLen("title", in.Title, 255),
//		validator.OneOf("priority", in.Priority, []string{"low", "medium", "high"}),
//	)
//
// Errors carry a translation key and values that a presentation layer can use
// to render localised messages.
package validator
