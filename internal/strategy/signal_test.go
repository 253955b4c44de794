package strategy

import (
	"reflect"
	"testing"

	"FundRadar/internal/model"
)

func f(v float64) *float64 { return &v }

func TestEvaluateSmartSignalBullish(t *testing.T) {
	// Above every MA with a rising MA20 and neutral RSI.
	sig := EvaluateSmartSignal(SignalInput{
		Price:     105,
		MAs:       model.MovingAverages{MA10: f(104), MA20: f(102), MA60: f(100)},
		MA20Slope: f(0.8),
		RSI:       f(55),
	})
	// buy: MA20 +2, MA60 +1, slope +2 = 5; sell: 0.
	if sig.BuyScore != 5 || sig.SellScore != 0 {
		t.Fatalf("scores = %d/%d, want 5/0, reasons %v", sig.BuyScore, sig.SellScore, sig.Reasons)
	}
	if sig.Action != model.ActionBuy {
		t.Errorf("action = %s, want buy", sig.Action)
	}
	if sig.Confidence != 5 {
		t.Errorf("confidence = %d, want 5", sig.Confidence)
	}
}

func TestEvaluateSmartSignalBreakdown(t *testing.T) {
	// Deep below MA10 and MA20, falling MA20, heavy volume, hot RSI.
	sig := EvaluateSmartSignal(SignalInput{
		Price:         94,
		MAs:           model.MovingAverages{MA10: f(100), MA20: f(100), MA60: f(100)},
		MA20Slope:     f(-1.0),
		DaysBelowMA10: 4,
		RSI:           f(85),
		VolumeRatio:   f(150),
	})
	// sell: MA10 +3, MA20 +2, MA60 +1, slope +2, days +2, volume +2, RSI +2 = 14.
	if sig.BuyScore != 0 || sig.SellScore != 14 {
		t.Fatalf("scores = %d/%d, want 0/14, reasons %v", sig.BuyScore, sig.SellScore, sig.Reasons)
	}
	if sig.Action != model.ActionSell {
		t.Errorf("action = %s, want sell", sig.Action)
	}
	if sig.Confidence != 5 {
		t.Errorf("confidence = %d, want clamped 5", sig.Confidence)
	}
}

func TestEvaluateSmartSignalBullPullback(t *testing.T) {
	// Just below MA10 but above a rising MA20: the pullback adjustment
	// can drive the sell score negative.
	sig := EvaluateSmartSignal(SignalInput{
		Price:     100,
		MAs:       model.MovingAverages{MA10: f(100.5), MA20: f(98), MA60: f(95)},
		MA20Slope: f(1.0),
		RSI:       f(50),
	})
	// buy: MA20 +2, MA60 +1, slope +2, RSI-stabilizing +1, pullback +2 = 8.
	// sell: below-MA10 +1, pullback -1 = 0.
	if sig.BuyScore != 8 {
		t.Errorf("buy score = %d, want 8, reasons %v", sig.BuyScore, sig.Reasons)
	}
	if sig.SellScore != 0 {
		t.Errorf("sell score = %d, want 0", sig.SellScore)
	}
	if sig.Action != model.ActionBuy {
		t.Errorf("action = %s, want buy", sig.Action)
	}
}

func TestPullbackAdjustmentHasNoFloor(t *testing.T) {
	// The -1 adjustment is applied raw. With only the small MA10 dip on
	// the sell side it lands on exactly 0, not a floored 1.
	sig := EvaluateSmartSignal(SignalInput{
		Price:     100,
		MAs:       model.MovingAverages{MA10: f(100.5), MA20: f(99)},
		MA20Slope: f(0.6),
	})
	if sig.SellScore != 0 {
		t.Errorf("sell score = %d, want 0 after adjustment", sig.SellScore)
	}
}

func TestSmartSignalActionThresholds(t *testing.T) {
	cases := []struct {
		name    string
		in      SignalInput
		wantNet int
		want    model.SignalAction
	}{
		{
			// MA20 +2, MA60 +1, slope +1 = 4.
			"net 4 buys",
			SignalInput{Price: 100, MAs: model.MovingAverages{MA20: f(99), MA60: f(98)}, MA20Slope: f(0.2)},
			4, model.ActionBuy,
		},
		{
			// MA20 +2 only.
			"net 2 holds",
			SignalInput{Price: 100, MAs: model.MovingAverages{MA20: f(99)}},
			2, model.ActionHold,
		},
		{
			// MA60 +1 only.
			"net 1 watches",
			SignalInput{Price: 100, MAs: model.MovingAverages{MA60: f(99)}},
			1, model.ActionWatch,
		},
		{
			// MA60 sell +1 only.
			"net -1 reduces",
			SignalInput{Price: 100, MAs: model.MovingAverages{MA60: f(101)}},
			-1, model.ActionReduce,
		},
		{
			// MA60 sell +1, slope sell +2.
			"net -3 sells",
			SignalInput{Price: 100, MAs: model.MovingAverages{MA60: f(101)}, MA20Slope: f(-1.0)},
			-3, model.ActionSell,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := EvaluateSmartSignal(tc.in)
			if sig.NetScore != tc.wantNet {
				t.Fatalf("net = %d, want %d, reasons %v", sig.NetScore, tc.wantNet, sig.Reasons)
			}
			if sig.Action != tc.want {
				t.Errorf("action = %s, want %s", sig.Action, tc.want)
			}
		})
	}
}

func TestEvaluateSmartSignalDeterministic(t *testing.T) {
	in := SignalInput{
		Price:         98,
		MAs:           model.MovingAverages{MA10: f(100), MA20: f(97), MA60: f(95)},
		MA20Slope:     f(0.3),
		DaysBelowMA10: 2,
		RSI:           f(45),
		VolumeRatio:   f(70),
		BreadthRatio:  f(1.5),
	}
	first := EvaluateSmartSignal(in)
	second := EvaluateSmartSignal(in)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same input produced different signals:\n%+v\n%+v", first, second)
	}
	if len(first.Reasons) == 0 {
		t.Error("expected reasons for triggered rules")
	}
}

func TestEvaluateSmartSignalMissingIndicators(t *testing.T) {
	// A single price point computes nothing; the signal stays neutral.
	sig := EvaluateSmartSignal(SignalInput{Price: 100})
	if sig.BuyScore != 0 || sig.SellScore != 0 {
		t.Errorf("scores = %d/%d, want 0/0", sig.BuyScore, sig.SellScore)
	}
	if sig.Action != model.ActionWatch {
		t.Errorf("action = %s, want watch", sig.Action)
	}
	if sig.Confidence != 1 {
		t.Errorf("confidence = %d, want floor of 1", sig.Confidence)
	}
}

func TestEvaluateSmartSignalVolumeOnlyBelowMA10(t *testing.T) {
	// Above MA10 the volume rules must not fire.
	sig := EvaluateSmartSignal(SignalInput{
		Price:       101,
		MAs:         model.MovingAverages{MA10: f(100)},
		VolumeRatio: f(200),
	})
	if sig.SellScore != 0 {
		t.Errorf("sell score = %d, volume rule fired above MA10", sig.SellScore)
	}
}
