package midtrans

import (
	"MeatFresh-Backend/internal/utils"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// Gateway is the slice of the Midtrans API the premium flow needs.
type Gateway interface {
	CreateSnap(req *snap.Request) (*snap.Response, error)
	CheckStatus(orderID string) (*coreapi.TransactionStatusResponse, error)
}

type midtransGateway struct {
	snap snap.Client
	core coreapi.Client
}

func NewGateway() Gateway {
	env := midtrans.Sandbox
	if utils.IsProduction() {
		env = midtrans.Production
	}

	g := &midtransGateway{}
	g.snap.New(utils.GetConfig("SERVER_KEY"), env)
	g.core.New(utils.GetConfig("SERVER_KEY"), env)
	return g
}

func (g *midtransGateway) CreateSnap(req *snap.Request) (*snap.Response, error) {
	resp, merr := g.snap.CreateTransaction(req)
	if merr != nil {
		return nil, fmt.Errorf("snap create %s: %s", req.TransactionDetails.OrderID, merr.Message)
	}
	return resp, nil
}

func (g *midtransGateway) CheckStatus(orderID string) (*coreapi.TransactionStatusResponse, error) {
	resp, merr := g.core.CheckTransaction(orderID)
	if merr != nil {
		return nil, fmt.Errorf("core check %s: %s", orderID, merr.Message)
	}
	return resp, nil
}

// Signature is the notification signature Midtrans computes:
// sha512(order_id + status_code + gross_amount + server_key).
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
