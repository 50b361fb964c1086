package realtime

import "github.com/gofiber/websocket/v2"

// Subscriber: satu koneksi display yang mengikuti antrian satu staff.
type Subscriber struct {
	StaffID int64
	Conn    *websocket.Conn
}

// StaffUpdate is the freshly numbered active queue of one staff member,
// already marshalled.
type StaffUpdate struct {
	StaffID int64
	Payload []byte
}

type QueueHub struct {
	Register   chan *Subscriber
	Unregister chan *Subscriber
	Broadcast  chan StaffUpdate
	rooms      map[int64]map[*websocket.Conn]bool
}

var Queue = QueueHub{
	Register:   make(chan *Subscriber),
	Unregister: make(chan *Subscriber),
	Broadcast:  make(chan StaffUpdate, 16),
	rooms:      make(map[int64]map[*websocket.Conn]bool),
}

func RunQueueBroadcaster() {
	for {
		select {
		case s := <-Queue.Register:
			room := Queue.rooms[s.StaffID]
			if room == nil {
				room = make(map[*websocket.Conn]bool)
				Queue.rooms[s.StaffID] = room
			}
			room[s.Conn] = true
		case s := <-Queue.Unregister:
			if room, ok := Queue.rooms[s.StaffID]; ok {
				delete(room, s.Conn)
				if len(room) == 0 {
					delete(Queue.rooms, s.StaffID)
				}
			}
			s.Conn.Close()
		case update := <-Queue.Broadcast:
			for conn := range Queue.rooms[update.StaffID] {
				conn.WriteMessage(websocket.TextMessage, update.Payload)
			}
		}
	}
}
