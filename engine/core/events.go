package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Keyboard key pressed.
	/* Context usage:
	 * ke := context.Data.(*KeyEvent)
	 */
	EVENT_CODE_KEY_PRESSED SystemEventCode = 0x02

	// Keyboard key released.
	EVENT_CODE_KEY_RELEASED SystemEventCode = 0x03

	// Resized/resolution changed from the OS.
	/* Context usage:
	 * se := context.Data.(*SystemEvent)
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// A graphics context has been created and made current.
	EVENT_CODE_GL_CONTEXT_CREATED SystemEventCode = 0x10

	// A graphics context finished its setup; GPU objects may be (re)generated.
	EVENT_CODE_GL_CONTEXT_SETUP SystemEventCode = 0x11

	// A graphics context is about to go away while it is still current.
	EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED SystemEventCode = 0x12

	// A graphics context is gone. GPU handles are no longer valid.
	EVENT_CODE_GL_CONTEXT_DESTROYED SystemEventCode = 0x13

	// A watched asset file was created or modified.
	/* Context usage:
	 * path := context.Data.(string)
	 */
	EVENT_CODE_ASSET_CHANGED SystemEventCode = 0x20

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type KeyEvent struct {
	KeyCode int
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type EventContext struct {
	Type SystemEventCode
	// Sender is whoever fired the event. Can be nil.
	Sender interface{}
	Data   interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventSystem dispatches events synchronously to the registered listeners.
// Each graphics context owns one, so that context-loss notifications only
// reach the objects created on that context.
type EventSystem struct {
	mutex      sync.RWMutex
	registered map[SystemEventCode][]*registeredEvent
}

func NewEventSystem() *EventSystem {
	return &EventSystem{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
}

func (es *EventSystem) Shutdown() error {
	es.mutex.Lock()
	defer es.mutex.Unlock()
	// And objects pointed to should be destroyed on their own.
	es.registered = make(map[SystemEventCode][]*registeredEvent)
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listeners will not be registered again and will cause this to return FALSE.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns TRUE if the event is successfully registered; otherwise false.
 */
func (es *EventSystem) Register(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if code < 0 || code >= MAX_MESSAGE_CODES || onEvent == nil {
		return false
	}
	es.mutex.Lock()
	defer es.mutex.Unlock()

	for _, e := range es.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code `%d`", code)
			return false
		}
	}
	es.registered[code] = append(es.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns FALSE.
 * @param code The event code to stop listening for.
 * @param listener A pointer to a listener instance.
 * @returns TRUE if the event is successfully unregistered; otherwise false.
 */
func (es *EventSystem) Unregister(code SystemEventCode, listener interface{}) bool {
	es.mutex.Lock()
	defer es.mutex.Unlock()

	events := es.registered[code]
	for i, e := range events {
		if e.listener == listener {
			es.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

// UnregisterAll drops every registration made by the listener.
func (es *EventSystem) UnregisterAll(listener interface{}) {
	es.mutex.RLock()
	codes := make([]SystemEventCode, 0, len(es.registered))
	for code := range es.registered {
		codes = append(codes, code)
	}
	es.mutex.RUnlock()

	for _, code := range codes {
		es.Unregister(code, listener)
	}
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * TRUE, the event is considered handled and is not passed on to any more listeners.
 * Listeners may unregister themselves from inside the callback.
 * @returns TRUE if handled, otherwise FALSE.
 */
func (es *EventSystem) Fire(context EventContext) bool {
	es.mutex.RLock()
	events := make([]*registeredEvent, len(es.registered[context.Type]))
	copy(events, es.registered[context.Type])
	es.mutex.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

// ListenerCount returns how many listeners are registered for the code.
func (es *EventSystem) ListenerCount(code SystemEventCode) int {
	es.mutex.RLock()
	defer es.mutex.RUnlock()
	return len(es.registered[code])
}
