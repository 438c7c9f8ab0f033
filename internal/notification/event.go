package notification

// Kind identifica o tipo de evento de notificação.
type Kind string

const (
	KindAppointmentNew       Kind = "APPOINTMENT_NEW"
	KindAppointmentReminder  Kind = "APPOINTMENT_REMINDER"
	KindAppointmentCompleted Kind = "APPOINTMENT_COMPLETED"
	KindRetentionAlert       Kind = "RETENTION_ALERT"
)

// Event é a união discriminada dos eventos aceitos pelo Dispatcher. Cada
// variante carrega exatamente os campos de que precisa — nada de meta
// opcional preenchido pela metade.
type Event interface {
	Kind() Kind
	ClientLabel() string
}

// AppointmentNew: novo agendamento criado pelo fluxo público ou privado.
// A mensagem externa vai para o telefone do admin da barbearia.
type AppointmentNew struct {
	ClientName  string
	ClientPhone string
	ServiceName string
	BarberName  string
	Date        string
	Time        string
}

func (AppointmentNew) Kind() Kind            { return KindAppointmentNew }
func (e AppointmentNew) ClientLabel() string { return e.ClientName }

// AppointmentReminder: apenas alerta interno; o envio externo deste tipo
// não está ligado no design atual.
type AppointmentReminder struct {
	ClientName string
}

func (AppointmentReminder) Kind() Kind            { return KindAppointmentReminder }
func (e AppointmentReminder) ClientLabel() string { return e.ClientName }

// AppointmentCompleted: agradecimento pós-atendimento para o cliente.
type AppointmentCompleted struct {
	ClientName  string
	ClientPhone string
}

func (AppointmentCompleted) Kind() Kind            { return KindAppointmentCompleted }
func (e AppointmentCompleted) ClientLabel() string { return e.ClientName }

// RetentionAlert: cliente sumido; mensagem de reengajamento com link de
// agendamento.
type RetentionAlert struct {
	ClientName         string
	ClientPhone        string
	DaysSinceLastVisit int
}

func (RetentionAlert) Kind() Kind            { return KindRetentionAlert }
func (e RetentionAlert) ClientLabel() string { return e.ClientName }
