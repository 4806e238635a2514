package hold_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/hold"
	"github.com/san-kum/framehold/internal/policy"
)

type fakeHost struct {
	fixed  map[int]func()
	ready  map[int]func()
	nextID int
	active hold.Vessel
}

func newFakeHost() *fakeHost {
	return &fakeHost{fixed: map[int]func(){}, ready: map[int]func(){}}
}

func (h *fakeHost) subscribe(set map[int]func(), fn func()) func() {
	h.nextID++
	id := h.nextID
	set[id] = fn
	return func() { delete(set, id) }
}

func (h *fakeHost) OnFixedUpdate(fn func()) func() { return h.subscribe(h.fixed, fn) }
func (h *fakeHost) OnUIReady(fn func()) func()     { return h.subscribe(h.ready, fn) }
func (h *fakeHost) ActiveVessel() hold.Vessel      { return h.active }

func (h *fakeHost) step() {
	for _, fn := range h.fixed {
		fn()
	}
}

func (h *fakeHost) uiReady() {
	for _, fn := range h.ready {
		fn()
	}
}

type fakeButton struct {
	fakeIndicator
	onClick func()
}

type fakeLauncher struct {
	ready   bool
	buttons []*fakeButton
	removed []hold.Button
}

func (l *fakeLauncher) Ready() bool { return l.ready }

func (l *fakeLauncher) AddButton(onClick func(), icon policy.Icon) hold.Button {
	b := &fakeButton{onClick: onClick}
	b.SetIcon(icon)
	l.buttons = append(l.buttons, b)
	return b
}

func (l *fakeLauncher) RemoveButton(b hold.Button) {
	l.removed = append(l.removed, b)
}

var _ = Describe("Controller", func() {
	var (
		host     *fakeHost
		launcher *fakeLauncher
		ctrl     *hold.Controller
		vessel   *fakeVessel
	)

	BeforeEach(func() {
		host = newFakeHost()
		launcher = &fakeLauncher{ready: true}
		vessel = newFlyingVessel()
		host.active = vessel
		ctrl = hold.NewController(host, launcher, hold.NewEngine(zerolog.Nop()), zerolog.Nop())
	})

	It("subscribes to both host events", func() {
		Expect(host.fixed).To(HaveLen(1))
		Expect(host.ready).To(HaveLen(1))
	})

	It("ticks the engine on every fixed update", func() {
		host.step()
		vessel.basis.pos = mgl64.Vec3{0, 1, 0}
		host.step()

		Expect(vessel.writes).To(Equal(1))
		Expect(ctrl.Engine().Pressed()).To(BeTrue())
	})

	It("adds a single button once the launcher is ready", func() {
		host.uiReady()
		host.uiReady()

		Expect(launcher.buttons).To(HaveLen(1))
		Expect(launcher.buttons[0].lastIcon()).To(Equal(policy.IconAuto))
	})

	It("skips the button while the launcher is not ready", func() {
		launcher.ready = false
		host.uiReady()
		Expect(launcher.buttons).To(BeEmpty())
	})

	It("cycles the mode when the button is clicked", func() {
		host.uiReady()
		button := launcher.buttons[0]

		button.onClick()
		Expect(ctrl.Engine().Mode()).To(Equal(policy.On))
		Expect(button.lastIcon()).To(Equal(policy.IconOn))

		button.onClick()
		button.onClick()
		Expect(ctrl.Engine().Mode()).To(Equal(policy.Automatic))
	})

	It("reports correction through the button", func() {
		host.uiReady()
		host.step()
		vessel.basis.pos = mgl64.Vec3{0.9, 0.1, 0}
		host.step()

		Expect(launcher.buttons[0].pressedCalls()).To(Equal([]bool{false, true}))
	})

	It("releases everything on close", func() {
		host.uiReady()
		ctrl.Close()
		ctrl.Close()

		Expect(host.fixed).To(BeEmpty())
		Expect(host.ready).To(BeEmpty())
		Expect(launcher.removed).To(HaveLen(1))

		host.step()
		Expect(vessel.writes).To(Equal(0))
	})
})
