package domain

import "strings"

// ActorCategory classifies who or what produced an audit event.
type ActorCategory string

const (
	ActorGenerativeModel ActorCategory = "generative_model"
	ActorRuleEngine      ActorCategory = "rule_engine"
	ActorPolicyEngine    ActorCategory = "policy_engine"
	ActorHuman           ActorCategory = "human"
)

func (c ActorCategory) String() string { return string(c) }

func (c ActorCategory) IsValid() bool {
	switch c {
	case ActorGenerativeModel, ActorRuleEngine, ActorPolicyEngine, ActorHuman:
		return true
	}
	return false
}

// Actor identifies the producer of an event: a category plus a free-form label
// such as a model name or a reviewer identifier.
type Actor struct {
	Category ActorCategory `json:"category"`
	Label    string        `json:"label"`
}

// Synthetic identities of the non-generative engines.
var (
	RuleEngineActor   = Actor{Category: ActorRuleEngine, Label: "rule_engine"}
	PolicyEngineActor = Actor{Category: ActorPolicyEngine, Label: "policy_engine"}
)

// AnonymousUserLabel labels actions taken by the public-track end user.
const AnonymousUserLabel = "anonymous_user"

// ModelActor returns the actor for a generative model.
func ModelActor(model string) Actor {
	return Actor{Category: ActorGenerativeModel, Label: model}
}

// HumanActor returns the actor for a person identified by an opaque id.
func HumanActor(id string) Actor {
	return Actor{Category: ActorHuman, Label: id}
}

func (a Actor) String() string { return string(a.Category) + ":" + a.Label }

// Validate checks that both category and label are present.
func (a Actor) Validate() error {
	var errs []FieldError
	if !a.Category.IsValid() {
		errs = append(errs, FieldError{Field: "actor.category", Message: "unknown actor category"})
	}
	if strings.TrimSpace(a.Label) == "" {
		errs = append(errs, FieldError{Field: "actor.label", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
