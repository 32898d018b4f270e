package models

// CategoryUncategorized is the sentinel label reported by aggregate queries
// for transactions that no rule matched. The raw column stays NULL in the
// store; only query results surface the sentinel.
const CategoryUncategorized = "uncategorized"

// CategoryRule maps a category name to the keywords that select it.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// CategoryRules is an ordered rule list. Order matters: the first rule with a
// matching keyword wins, so more specific categories should come first.
type CategoryRules []CategoryRule

// RulesFile is the on-disk shape of a categories.yaml file.
type RulesFile struct {
	Categories CategoryRules `yaml:"categories"`
}
