// resolver.go: Filter resolution for cliargs
//
// Copyright (c) 2025 AGILira
// Series: AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package cliargs

// resolver applies filters during construction. It lives only as long as
// New runs.
type resolver struct {
	args  *CliArgs
	audit *AuditLogger
}

// resolve computes the final value of spec. The default is used when the
// argument is absent, has no value, or its value is rejected; flag and help
// filters only care about presence.
func (r resolver) resolve(spec ArgumentSpec) interface{} {
	raw, present := r.args.raw.latest(spec.Name, spec.Alias)

	switch spec.Filter.kind {
	case FilterFlag:
		if present {
			return true
		}
		return spec.Default
	case FilterHelp:
		if present {
			r.args.help = true
			return r.help(spec, raw)
		}
		return spec.Default
	}

	if !present || !raw.Set {
		return spec.Default
	}

	value, ok := spec.Filter.apply(raw.Value)
	if !ok {
		r.audit.LogValueRejected(r.args.session, spec.Name, spec.Filter.String(), raw.Value)
		return spec.Default
	}
	return value
}

// help renders the full help, or a single argument's help when the help
// flag carries the name of a declared argument ("--help json"). Naming a
// help argument ("--help help") gives the full help.
func (r resolver) help(spec ArgumentSpec, raw RawValue) string {
	if raw.Set {
		if target, ok := r.args.config.Lookup(raw.Value); ok && target.Filter.kind != FilterHelp {
			r.audit.LogHelpRendered(r.args.session, target.Name)
			return renderHelp([]ArgumentSpec{target})
		}
	}
	r.audit.LogHelpRendered(r.args.session, spec.Name)
	return renderHelp(r.args.config)
}
