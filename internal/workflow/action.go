package workflow

import (
	"context"

	"go.trai.ch/puppet/internal/core/domain"
	"go.trai.ch/zerr"
)

// SSMParam is the result of a get-ssm-param task.
type SSMParam struct {
	Name   string `json:"Name"`
	Region string `json:"Region"`
	Value  string `json:"Value"`
}

// ActionParams encodes an action reference as provision-action parameters.
// Parameter store lookups without a region resolve in homeRegion.
func ActionParams(ref domain.ActionRef, homeRegion string) map[string]any {
	parameters := make(map[string]any, len(ref.Action.Parameters))
	for name, p := range ref.Action.Parameters {
		spec := map[string]any{}
		if p.IsSSM() {
			region := p.SSMRegion
			if region == "" {
				region = homeRegion
			}
			spec["ssm"] = map[string]any{paramName: p.SSMName, paramRegion: region}
		}
		if p.Default != nil {
			spec["default"] = *p.Default
		}
		parameters[name] = spec
	}
	return map[string]any{
		paramType:        ref.Action.Type,
		paramName:        ref.Name,
		paramProjectName: ref.Action.ProjectName,
		paramAccountID:   ref.Action.AccountID,
		paramRegion:      ref.Action.Region,
		paramPhase:       ref.Phase,
		paramSource:      ref.Action.Source,
		paramSourceType:  ref.Action.SourceType,
		paramParameters:  parameters,
	}
}

// actionParameter decodes one parameter encoded by ActionParams.
func actionParameter(p domain.ParameterSet) domain.ActionParameter {
	var out domain.ActionParameter
	if ssm := p.Map("ssm"); ssm.Len() > 0 {
		out.SSMName = ssm.String(paramName)
		out.SSMRegion = ssm.String(paramRegion)
	}
	if v, ok := p.Get("default"); ok {
		s := v.Str()
		out.Default = &s
	}
	return out
}

func (d *Dispatcher) getSSMParam(ctx context.Context, run *Run) (domain.Outcome, error) {
	name, region := run.param(paramName), run.region()
	client, err := d.clients.Local(ctx, region)
	if err != nil {
		return domain.Outcome{}, err
	}
	value, err := client.ParameterStore().GetParameter(ctx, name)
	if err != nil {
		return domain.Outcome{}, zerr.With(err, "parameter", name)
	}
	return domain.Outcome{Result: SSMParam{Name: name, Region: region, Value: value}}, nil
}

func (d *Dispatcher) provisionAction(ctx context.Context, run *Run) (domain.Outcome, error) {
	parameters := run.Task.Params.Map(paramParameters)
	resolved := make(map[string]domain.ActionParameter, parameters.Len())
	for _, name := range parameters.Names() {
		p := actionParameter(parameters.Map(name))
		if err := p.Validate(name); err != nil {
			return domain.Outcome{}, zerr.With(err, "action", run.param(paramName))
		}
		resolved[name] = p
	}

	env := make(map[string]string, len(resolved))
	for name, p := range resolved {
		if p.Default != nil {
			env[name] = *p.Default
			continue
		}
		var secret SSMParam
		if err := run.Inputs.Decode("ssm/"+name, &secret); err != nil {
			return domain.Outcome{}, err
		}
		env[name] = secret.Value
	}

	account, region := run.account(), run.region()
	client, err := d.clients.AssumeRole(ctx, roleSession(account, region, "sc-"+region+"-"+account))
	if err != nil {
		return domain.Outcome{}, err
	}
	cb := client.CodeBuild()

	project := run.param(paramProjectName)
	id, err := cb.StartBuild(ctx, project, env)
	if err != nil {
		return domain.Outcome{}, err
	}
	run.Log.Info("build started", "project", project, "build", id)

	var build domain.Build
	for !build.IsTerminal() {
		if err := sleep(ctx, d.intervals.Build); err != nil {
			return domain.Outcome{}, err
		}
		if build, err = cb.BatchGetBuild(ctx, id); err != nil {
			return domain.Outcome{}, err
		}
	}

	if build.Status != domain.BuildSucceeded {
		return domain.Outcome{}, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrRemoteOperationFailed, "action build did not succeed"),
			"build", id), "status", string(build.Status))
	}
	run.Log.Info("build succeeded", "project", project, "build", id)
	return run.paramsResult(), nil
}
