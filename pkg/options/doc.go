// Package options declares the boolean build options of a package and the
// platform rules that prune them.
//
// Resolution starts from a Schema's defaults, layers user overrides with
// Schema.Apply (unknown names are rejected) and then runs Prune:
//
//	values, err := options.ProducerSchema().Apply(map[string]bool{"coverage": true})
//	pruned := options.Prune(settings, values)
//
// Values is immutable. Pruning returns a new set and never enables an option,
// which makes it idempotent regardless of rule order.
package options
