package fee

import "github.com/gigvault/escrow-service/internal/domain"

// Split divides a payable amount into the freelancer's net share and the
// platform fee. feeBps is in basis points; the fee is floored so the
// remainder always goes to the freelancer and the parts sum to amount.
func Split(amount, feeBps int64) (freelancerAmount, feeAmount int64, err error) {
	if amount < 0 {
		return 0, 0, domain.E(domain.KindInvalidArgument, "amount must not be negative, got %d", amount)
	}
	if feeBps < 0 || feeBps > 10000 {
		return 0, 0, domain.E(domain.KindInvalidArgument, "fee basis points out of range: %d", feeBps)
	}
	// Split the product so amount*feeBps cannot overflow int64 for large
	// amounts. Equal to floor(amount*feeBps/10000) exactly.
	feeAmount = amount/10000*feeBps + amount%10000*feeBps/10000
	freelancerAmount = amount - feeAmount
	return freelancerAmount, feeAmount, nil
}
