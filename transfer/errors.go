package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDestination = errors.New("invalid destination")
	ErrWrongAccount       = errors.New("connected account is not the owner")
	ErrWrongNetwork       = errors.New("wallet is connected to the wrong network")
	ErrApprovalFailed     = errors.New("operator approval failed")
	ErrSubmission         = errors.New("transaction submission failed")
	ErrTransactionFailed  = errors.New("transaction failed")
	ErrAttemptInFlight    = errors.New("a transfer is already in progress")
	ErrEmptySelection     = errors.New("no tokens selected")
	ErrUnknownToken       = errors.New("token is not owned by this owner")
	ErrUnknownOwner       = errors.New("owner could not be resolved")
	ErrTxLost             = errors.New("transaction was not picked up by any node")
)

// Notification texts shown to the user.
const (
	MsgSubmissionFailed  = "Error while trying to submit transaction.\nPlease try again."
	MsgTransactionFailed = "It seems that your transaction failed. Please refresh the page"
	MsgTransferred       = "POAP transferred successfully!"
	MsgInvalidAddress    = "Invalid address"
)

func WrongAccountMessage(owner string) string {
	return fmt.Sprintf("Please connect using the address: %s", owner)
}

func WrongNetworkMessage(network string) string {
	return fmt.Sprintf("Wrong network, please connect to %s.", network)
}
