package goIdentity

import "context"

// Allows resolves the gate for one strategy name. A non-empty allow-list
// wins over the boolean; the zero value denies everything.
func (g StrategyGate) Allows(strategy string) bool {
	if len(g.Strategies) > 0 {
		for _, name := range g.Strategies {
			if name == strategy {
				return true
			}
		}
		return false
	}
	return g.AllowAll
}

// AllowsHTTP reports whether the named strategy may authenticate this
// identity kind through HTTP header credentials. The outer middleware must
// consult it before invoking resolution for that channel.
func (e *Engine) AllowsHTTP(strategy string) bool {
	return e.allows(e.gate(channelHTTP), channelHTTP, strategy)
}

// AllowsParams reports whether the named strategy may authenticate this
// identity kind through request parameters. The outer middleware must
// consult it before invoking resolution for that channel.
func (e *Engine) AllowsParams(strategy string) bool {
	return e.allows(e.gate(channelParams), channelParams, strategy)
}

const (
	channelHTTP   = "http"
	channelParams = "params"
)

func (e *Engine) gate(channel string) StrategyGate {
	if e == nil {
		return StrategyGate{}
	}
	if channel == channelHTTP {
		return e.cfg.Gates.HTTPAuthenticatable
	}
	return e.cfg.Gates.ParamsAuthenticatable
}

func (e *Engine) allows(gate StrategyGate, channel, strategy string) bool {
	if gate.Allows(strategy) {
		return true
	}
	if e != nil {
		e.metrics.Inc(MetricGateDenied)
		e.emitGateDenied(context.Background(), channel, strategy)
	}
	return false
}
