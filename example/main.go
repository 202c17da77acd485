package main

import (
	"log"
	"time"

	"github.com/huangsc/hftcore"
)

type exampleHandler struct{}

func (h *exampleHandler) OnTrade(r matcher.ExecutionReport) {
	log.Printf("trade: order=%d contra=%d price=%s qty=%d\n", r.OrderID, r.ContraOrderID, r.Price, r.Quantity)
}

func (h *exampleHandler) OnOrderUpdate(r matcher.ExecutionReport) {
	log.Printf("order update: id=%d kind=%s status\n", r.OrderID, r.Kind)
}

func main() {
	engine := matcher.NewMatchEngine(1024, nil)
	engine.SetExecutionCallback(matcher.ToCallback(&exampleHandler{}))

	symbol := matcher.NewSymbol("DEMO")
	engine.AddInstrument(symbol)

	engine.SubmitOrder(symbol, matcher.Sell, matcher.Limit, 100*matcher.Price(matcher.PriceMultiplier), 10, 1)
	engine.SubmitOrder(symbol, matcher.Buy, matcher.Limit, 100*matcher.Price(matcher.PriceMultiplier), 10, 2)

	time.Sleep(10 * time.Millisecond)
}
