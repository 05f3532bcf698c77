package generator

import "legacyvault/internal/will/models"

// minimumWitnesses applies even where the jurisdiction names fewer.
const minimumWitnesses = 2

// executionInstructions explains how to make the chosen will type effective.
func (r *renderer) executionInstructions() (models.ExecutionInstructions, error) {
	out := models.ExecutionInstructions{
		WillType: r.willType,
		Steps:    append([]string(nil), r.book.steps[r.willType]...),
	}

	switch r.willType {
	case models.WillTypeHolographic:
	case models.WillTypeWitnessed:
		count := max(minimumWitnesses, r.cfg.Witnesses.MinimumCount)
		out.WitnessesRequired = count
		step, err := r.book.render(groupExecution, "witness_count", clauseInput{Count: count})
		if err != nil {
			return models.ExecutionInstructions{}, err
		}
		out.Steps = append(out.Steps, step)
		for _, restriction := range r.cfg.Witnesses.Restrictions {
			if !r.book.has(groupExecution, string(restriction)) {
				continue
			}
			rule, err := r.book.render(groupExecution, string(restriction), clauseInput{})
			if err != nil {
				return models.ExecutionInstructions{}, err
			}
			out.WitnessRules = append(out.WitnessRules, rule)
		}
	case models.WillTypeNotarial:
		step, err := r.notaryStep()
		if err != nil {
			return models.ExecutionInstructions{}, err
		}
		out.Steps = append(out.Steps, step)
	}

	notarization, err := r.notarization()
	if err != nil {
		return models.ExecutionInstructions{}, err
	}
	out.Notarization = notarization

	if methods := nonEmpty(r.cfg.RevocationMethods...); len(methods) > 0 {
		text, err := r.book.render(groupExecution, "revocation", clauseInput{Items: r.fmt.list(methods)})
		if err != nil {
			return models.ExecutionInstructions{}, err
		}
		out.Revocation = []string{text}
	}
	return out, nil
}

func (r *renderer) notaryStep() (string, error) {
	if n := r.cfg.Notary; n != nil && n.Body != "" {
		return r.book.render(groupExecution, "notary", clauseInput{Body: n.Body, FeeRange: orBlank(n.FeeRange)})
	}
	return r.book.render(groupExecution, "notary_generic", clauseInput{})
}

func (r *renderer) notarization() (string, error) {
	rules := r.cfg.Notarization
	switch {
	case r.willType == models.WillTypeNotarial || rules.Required:
		return r.book.render(groupExecution, "notarization_required", clauseInput{})
	case len(nonEmpty(rules.AdvisableWhen...)) > 0:
		return r.book.render(groupExecution, "notarization_advisable", clauseInput{Items: r.fmt.list(rules.AdvisableWhen)})
	}
	return "", nil
}
