package observable

// Capability delivers a notification to listener. It reports false when
// listener does not support it, in which case nothing is invoked.
type Capability func(listener any, state uint, payload any) bool

// CapabilityResolver maps a state value to the capability listeners are
// notified through. A nil Capability means there is nothing to invoke.
type CapabilityResolver func(state uint) Capability

// CapabilityOf builds a Capability supported by every listener that
// satisfies L.
func CapabilityOf[L any](handle func(listener L, state uint, payload any)) Capability {
	return func(listener any, state uint, payload any) bool {
		l, ok := listener.(L)
		if !ok {
			return false
		}
		handle(l, state, payload)
		return true
	}
}

// NoCapability resolves every state to no capability.
func NoCapability(uint) Capability {
	return nil
}

// CapabilityMap resolves states through a fixed table. States missing from
// the table resolve to no capability.
func CapabilityMap(capabilities map[uint]Capability) CapabilityResolver {
	return func(state uint) Capability {
		return capabilities[state]
	}
}
