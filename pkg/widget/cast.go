package widget

import (
	"reflect"

	"github.com/devicelab-dev/gwt-driver/pkg/logger"
)

// As re-casts from to the model W. Unless W is unconstrained, the page is
// asked first whether the widget behind the element is W's GWT class.
func As[W Model](from Model) (W, error) {
	var zero W
	h := handleOf(from)
	e, err := h.registry.entryFor(typeOf[W]())
	if err != nil {
		return zero, err
	}
	m, err := h.registry.cast(e, h)
	if err != nil {
		return zero, err
	}
	return m.(W), nil
}

// Cast is As for a model known by its registered name.
func (r *Registry) Cast(name string, from Model) (Model, error) {
	e, err := r.entryNamed(name)
	if err != nil {
		return nil, err
	}
	return r.cast(e, handleOf(from))
}

// handleOf returns from's handle, or the zero Widget when from is nil.
func handleOf(from Model) Widget {
	if from == nil {
		return Widget{}
	}
	if v := reflect.ValueOf(from); v.Kind() == reflect.Ptr && v.IsNil() {
		return Widget{}
	}
	return from.Handle()
}

func (r *Registry) cast(e entry, h Widget) (Model, error) {
	if !h.Valid() {
		return nil, ErrNilReference.with(e.name, elementID(h.element), nil)
	}
	el := h.element.ID()

	switch {
	case e.target.IsUnconstrained():
		logger.Debug("as(%s): unconstrained, skipping client check for element %s", e.name, el)
	case e.target.IsZero():
		return nil, ErrNoTarget.with(e.name, el, nil)
	default:
		ok, err := r.checkerFor(h.driver).InstanceOfWidget(h.element, e.target.Name())
		if err != nil {
			logger.Warn("as(%s): client check failed for element %s: %v", e.name, el, err)
			return nil, ErrClientQuery.with(e.name, el, err)
		}
		if !ok {
			return nil, ErrTypeMismatch.
				with(e.name, el, nil).
				withMessage("cannot complete as(%s), element isn't a %s", e.name, e.target.Name())
		}
	}

	return e.build(r, h.driver, h.element), nil
}
