package order

// transitions is the legal status graph. Admin force-sets originate
// outside this engine; this table only answers whether a proposed
// transition is legal, it never performs one.
var transitions = map[Status][]Status{
	StatusRequested:         {StatusConfirm, StatusRejected, StatusCancelled},
	StatusConfirm:           {StatusWaitingForPayment, StatusCancelled},
	StatusWaitingForPayment: {StatusPaymentReceived},
	StatusPaymentReceived:   {StatusPacking},
	StatusPacking:           {StatusReadyToShip},
	StatusReadyToShip:       {StatusOnTheWay, StatusReadyToPick},
	StatusReadyToPick:       {StatusDelivered},
	StatusOnTheWay:          {StatusDelivered},
}

// CanTransition reports whether from -> to is a legal move in the status
// graph. The administrative sub-stages are normalized through
// CustomerFacingStatus first, so verify moves exactly like requested and
// approved exactly like confirm. Terminal states allow nothing.
func CanTransition(from, to Status) bool {
	from = CustomerFacingStatus(from)
	to = CustomerFacingStatus(to)
	if from == to {
		return false
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanCustomerCancel is true only before payment collection has begun.
// After that, cancellation stops being a customer self-service action.
func CanCustomerCancel(s Status) bool {
	s = CustomerFacingStatus(s)
	return s == StatusRequested || s == StatusConfirm
}

// CustomerFacingStatus remaps the administrative sub-stages onto the
// states customers actually see. Every other status maps to itself.
func CustomerFacingStatus(s Status) Status {
	switch s {
	case StatusVerify:
		return StatusRequested
	case StatusApproved:
		return StatusConfirm
	default:
		return s
	}
}

// IsTerminal reports whether no further transition can ever happen.
func IsTerminal(s Status) bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusRejected:
		return true
	default:
		return false
	}
}
