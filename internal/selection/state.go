package selection

import (
	"fmt"
	"sync"

	"ligapro-predictor/internal/domain"
	"ligapro-predictor/internal/teams"
)

type Listener func(domain.Selection)

// State holds the home/away pair. A collision on set advances the other side,
// never the side that was just set.
type State struct {
	dir *teams.Directory

	mu        sync.Mutex
	current   domain.Selection
	listeners map[int]Listener
	order     []int
	nextID    int
}

func New(dir *teams.Directory, home, away string) (*State, error) {
	h, ok := dir.Lookup(home)
	if !ok {
		return nil, fmt.Errorf("default home: %w: %q", teams.ErrUnknownTeam, home)
	}
	a, ok := dir.Lookup(away)
	if !ok {
		return nil, fmt.Errorf("default away: %w: %q", teams.ErrUnknownTeam, away)
	}
	if h.Name == a.Name {
		a, _ = dir.Lookup(dir.Next(h.Name))
	}
	return &State{
		dir:       dir,
		current:   domain.Selection{Home: h, Away: a},
		listeners: make(map[int]Listener),
	}, nil
}

func (s *State) Current() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *State) SetHome(name string) error {
	return s.mutate(func(cur *domain.Selection) error {
		t, ok := s.dir.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", teams.ErrUnknownTeam, name)
		}
		cur.Home = t
		if cur.Away.Name == t.Name {
			cur.Away, _ = s.dir.Lookup(s.dir.Next(t.Name))
		}
		return nil
	})
}

func (s *State) SetAway(name string) error {
	return s.mutate(func(cur *domain.Selection) error {
		t, ok := s.dir.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %q", teams.ErrUnknownTeam, name)
		}
		cur.Away = t
		if cur.Home.Name == t.Name {
			cur.Home, _ = s.dir.Lookup(s.dir.Next(t.Name))
		}
		return nil
	})
}

func (s *State) Swap() {
	_ = s.mutate(func(cur *domain.Selection) error {
		cur.Home, cur.Away = cur.Away, cur.Home
		return nil
	})
}

// Subscribe registers fn to run synchronously after every mutation.
// The returned disposer may be called more than once.
func (s *State) Subscribe(fn Listener) (dispose func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *State) mutate(apply func(*domain.Selection) error) error {
	s.mu.Lock()
	next := s.current
	if err := apply(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	listeners := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	// listeners run outside the lock so they may call Current
	for _, fn := range listeners {
		fn(next)
	}
	return nil
}
