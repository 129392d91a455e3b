package calculator

// Direction derives who owes whom for one participant's share of a split.
// Rules, in order:
//
//  1. the creator paid: the participant owes the creator
//  2. the participant paid: the creator owes the participant
//  3. a third party paid: the participant owes the payer
//
// ok is false when the pair would collapse into a self-debt, in which case no
// debt record must be created for that participant.
func Direction(payerID, creatorID, participantID int) (creditorID, debtorID int, ok bool) {
	switch {
	case payerID == creatorID:
		creditorID, debtorID = creatorID, participantID
	case payerID == participantID:
		creditorID, debtorID = participantID, creatorID
	default:
		creditorID, debtorID = payerID, participantID
	}
	if creditorID == debtorID {
		return 0, 0, false
	}
	return creditorID, debtorID, true
}
