package hold_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

var _ = Describe("Engine", func() {
	var (
		engine *hold.Engine
		vessel *fakeVessel
		ind    *fakeIndicator
	)

	BeforeEach(func() {
		engine = hold.NewEngine(zerolog.Nop())
		vessel = newFlyingVessel()
		ind = &fakeIndicator{}
	})

	It("starts in automatic mode and unpressed", func() {
		Expect(engine.Mode()).To(Equal(policy.Automatic))
		Expect(engine.Pressed()).To(BeFalse())
		Expect(engine.Snapshot().Active).To(BeFalse())
	})

	Context("when the reference frame rotates a quarter turn about z", func() {
		It("rotates the held attitude by the same quarter turn", func() {
			before := vessel.held

			first := engine.Tick(vessel)
			Expect(first.Applied).To(BeFalse())
			Expect(first.Captured).To(BeTrue())
			Expect(vessel.writes).To(Equal(0))

			vessel.basis.pos = mgl64.Vec3{0, 1, 0}
			rep := engine.Tick(vessel)

			s := math.Sin(math.Pi / 4)
			delta := mgl64.Quat{W: math.Cos(math.Pi / 4), V: mgl64.Vec3{0, 0, s}}
			Expect(rep.Applied).To(BeTrue())
			Expect(rep.Working).To(BeTrue())
			Expect(rep.Delta).To(beApproxQuat(delta))
			Expect(vessel.held).To(beApproxQuat(delta.Mul(before)))
			Expect(engine.Pressed()).To(BeTrue())
		})

		It("measures the position relative to the body centre", func() {
			vessel.body.pos = mgl64.Vec3{50, 50, 0}
			vessel.basis.pos = mgl64.Vec3{51, 50, 0}
			engine.Tick(vessel)

			vessel.body.pos = mgl64.Vec3{60, 50, 0}
			vessel.basis.pos = mgl64.Vec3{60, 51, 0}
			rep := engine.Tick(vessel)

			s := math.Sin(math.Pi / 4)
			Expect(rep.Delta).To(beApproxQuat(mgl64.Quat{W: s, V: mgl64.Vec3{0, 0, s}}))
		})
	})

	It("leaves the target unchanged when nothing moved", func() {
		before := vessel.held
		engine.Tick(vessel)
		rep := engine.Tick(vessel)

		Expect(rep.Applied).To(BeTrue())
		Expect(rep.Delta).To(beApproxQuat(mgl64.QuatIdent()))
		Expect(vessel.held).To(beApproxQuat(before))
	})

	Context("landed on an airless body in automatic mode", func() {
		BeforeEach(func() {
			vessel.situation = policy.Landed
			vessel.body.atmo = false
			engine.Attach(ind)
		})

		It("never corrects and reports unpressed", func() {
			before := vessel.held
			for i := 0; i < 5; i++ {
				vessel.basis.pos = mgl64.Vec3{math.Cos(float64(i) * 0.01), math.Sin(float64(i) * 0.01), 0}
				rep := engine.Tick(vessel)
				Expect(rep.Working).To(BeFalse())
				Expect(rep.Applied).To(BeFalse())
			}
			Expect(vessel.held).To(Equal(before))
			Expect(engine.Pressed()).To(BeFalse())
			Expect(ind.pressedCalls()).To(Equal([]bool{false}))
		})

		It("still keeps a fresh snapshot", func() {
			engine.Tick(vessel)
			Expect(engine.Snapshot().Active).To(BeTrue())
			Expect(engine.Snapshot().Relative).To(Equal(vessel.basis.pos))
		})

		It("corrects once the body has an atmosphere", func() {
			vessel.body.atmo = true
			engine.Tick(vessel)
			vessel.basis.pos = mgl64.Vec3{0.99, 0.01, 0}
			Expect(engine.Tick(vessel).Applied).To(BeTrue())
		})
	})

	DescribeTable("breaks continuity when identity changes",
		func(change func(v *fakeVessel)) {
			engine.Tick(vessel)
			change(vessel)
			vessel.basis.pos = mgl64.Vec3{0, 1, 0}
			before := vessel.held

			rep := engine.Tick(vessel)
			Expect(rep.Applied).To(BeFalse())
			Expect(rep.Working).To(BeFalse())
			Expect(vessel.held).To(Equal(before))

			By("resuming on the following tick from the fresh capture")
			vessel.basis.pos = mgl64.Vec3{-1, 0, 0}
			Expect(engine.Tick(vessel).Applied).To(BeTrue())
		},
		Entry("different vessel", func(v *fakeVessel) { v.id = 2 }),
		Entry("different body", func(v *fakeVessel) { v.body = &fakeBody{id: 11} }),
		Entry("different reference basis", func(v *fakeVessel) { v.basis = &fakeBasis{id: 101} }),
	)

	It("recovers one tick after hold is re-engaged", func() {
		engine.Tick(vessel)
		vessel.basis.pos = mgl64.Vec3{0.9, 0.1, 0}
		Expect(engine.Tick(vessel).Applied).To(BeTrue())

		vessel.hold = false
		vessel.basis.pos = mgl64.Vec3{0.8, 0.2, 0}
		rep := engine.Tick(vessel)
		Expect(rep.Applied).To(BeFalse())
		Expect(rep.Captured).To(BeFalse())
		Expect(engine.Snapshot().Active).To(BeFalse())
		Expect(engine.Snapshot().Relative).To(Equal(mgl64.Vec3{0.9, 0.1, 0}))

		vessel.hold = true
		vessel.basis.pos = mgl64.Vec3{0.7, 0.3, 0}
		rep = engine.Tick(vessel)
		Expect(rep.Applied).To(BeFalse())
		Expect(rep.Captured).To(BeTrue())

		vessel.basis.pos = mgl64.Vec3{0.6, 0.4, 0}
		Expect(engine.Tick(vessel).Applied).To(BeTrue())
	})

	It("does nothing without an active vessel", func() {
		engine.Attach(ind)
		engine.Tick(vessel)
		vessel.basis.pos = mgl64.Vec3{0.9, 0.1, 0}
		engine.Tick(vessel)
		Expect(engine.Pressed()).To(BeTrue())

		rep := engine.Tick(nil)
		Expect(rep).To(Equal(hold.Report{Delta: mgl64.QuatIdent()}))
		Expect(engine.Snapshot().Active).To(BeFalse())
		Expect(engine.Pressed()).To(BeFalse())

		vessel.basis.pos = mgl64.Vec3{0.8, 0.2, 0}
		Expect(engine.Tick(vessel).Applied).To(BeFalse())
	})

	It("skips packed vessels without capturing", func() {
		engine.Tick(vessel)
		vessel.packed = true
		vessel.basis.pos = mgl64.Vec3{0.9, 0.1, 0}

		rep := engine.Tick(vessel)
		Expect(rep.Applied).To(BeFalse())
		Expect(rep.Captured).To(BeFalse())
		Expect(engine.Snapshot().Relative).To(Equal(mgl64.Vec3{1, 0, 0}))

		vessel.packed = false
		Expect(engine.Tick(vessel).Applied).To(BeFalse())
		vessel.basis.pos = mgl64.Vec3{0.8, 0.2, 0}
		Expect(engine.Tick(vessel).Applied).To(BeTrue())
	})

	It("captures in off mode so switching on corrects immediately", func() {
		engine.SetMode(policy.Off)
		engine.Tick(vessel)
		Expect(engine.Snapshot().Active).To(BeTrue())

		engine.SetMode(policy.On)
		vessel.basis.pos = mgl64.Vec3{0.9, 0.1, 0}
		Expect(engine.Tick(vessel).Applied).To(BeTrue())
	})

	Context("with an indicator attached", func() {
		BeforeEach(func() {
			engine.Attach(ind)
		})

		It("syncs the indicator on attach", func() {
			Expect(ind.pressedCalls()).To(Equal([]bool{false}))
			Expect(ind.lastIcon()).To(Equal(policy.IconAuto))
		})

		It("forwards the pressed state only on change", func() {
			for i := 0; i < 4; i++ {
				vessel.basis.pos = mgl64.Vec3{1, float64(i) * 0.01, 0}
				engine.Tick(vessel)
			}
			vessel.hold = false
			engine.Tick(vessel)
			engine.Tick(vessel)

			Expect(ind.pressedCalls()).To(Equal([]bool{false, true, false}))
		})

		It("re-asserts the pressed state before cycling the icon", func() {
			engine.Tick(vessel)
			engine.Tick(vessel)
			ind.calls = nil

			Expect(engine.Toggle()).To(Equal(policy.On))
			Expect(ind.calls).To(HaveLen(2))
			Expect(*ind.calls[0].pressed).To(BeTrue())
			Expect(ind.calls[1].icon).To(Equal(policy.IconOn))
		})

		It("cycles through the three icons", func() {
			var icons []policy.Icon
			for i := 0; i < 4; i++ {
				engine.Toggle()
				icons = append(icons, ind.lastIcon())
			}
			Expect(icons).To(Equal([]policy.Icon{policy.IconOn, policy.IconOff, policy.IconAuto, policy.IconOn}))
		})
	})
})
