package catalogue

// Default returns a fresh copy of the built-in catalogue: three workout
// sessions and one extra session.
func Default() *Catalogue {
	return &Catalogue{
		Sessions: []Session{
			{
				ID: 1, Label: "Sessione 1", Subtitle: "Core · Petto · Tricipiti",
				Color: "#818cf8", Glow: "rgba(129,140,248,0.35)", Icon: "💪",
				Type: SessionTypeWorkout,
				Groups: []Group{
					{Name: "Addominali", Icon: "🔥", Exercises: []Exercise{
						{Name: "Leg Raiser", Sets: 3, Reps: "15", Rest: 60, Description: "Sdraiati su panca/pavimento, mani sotto i glutei. Gambe tese, solleva a 90° e abbassa lentamente. Lombare a terra."},
						{Name: "Crunches", Sets: 3, Reps: "20", Rest: 60, Description: "Schiena a terra, ginocchia piegate. Stacca spalle dal suolo contraendo il retto. Movimento breve e controllato."},
						{Name: "Plank", Sets: 3, Reps: "30-60s", Rest: 60, IsTimed: true, Duration: 45, Description: "Avambracci e punte dei piedi. Corpo in linea retta. Contrai addome, glutei e quadricipiti."},
					}},
					{Name: "Petto & Tricipiti", Icon: "🏋️", Exercises: []Exercise{
						{Name: "Cavi dall'alto", Sets: 4, Reps: "15", Rest: 90, Description: "Cavo-croce maniglie alte. Braccia in arco avanti-basso. Gomiti fissi, contrai petto al picco."},
						{Name: "Bench Press", Sets: 4, Reps: "10", Rest: 120, Description: "Panca piana, impugnatura oltre le spalle. Scendi al petto controllato, spingi esplosivo. Scapole retratte."},
						{Name: "Pull Over Bilanciere", Sets: 3, Reps: "10", Rest: 90, Description: "Perpendicolare alla panca, spalle appoggiate. Bilanciere sopra il petto, abbassa oltre la testa stirando dorsale."},
						{Name: "French Press Manubri", Sets: 4, Reps: "12", Rest: 90, Description: "Panca, manubri sopra con braccia estese. Piega gomiti verso tempie, gomiti fermi verso il soffitto."},
						{Name: "Tricipiti ai Cavi", Sets: 3, Reps: "15", Rest: 60, Description: "Cavo alto, gomiti ai fianchi fissi. Estendi braccia verso il basso, torna su lentamente."},
					}},
				},
			},
			{
				ID: 2, Label: "Sessione 2", Subtitle: "Core · Gambe · Spalle",
				Color: "#fb7185", Glow: "rgba(251,113,133,0.35)", Icon: "🦵",
				Type: SessionTypeWorkout,
				Groups: []Group{
					{Name: "Addome", Icon: "🔥", Exercises: []Exercise{
						{Name: "Rotary Torso", Sets: 3, Reps: "15", Rest: 60, Description: "Seduto, busto bloccato. Ruota il torso contraendo obliqui. Un lato alla volta, movimento lento."},
					}},
					{Name: "Gambe", Icon: "🦵", Exercises: []Exercise{
						{Name: "Leg Press", Sets: 4, Reps: "15-12-10-8", Rest: 120, Description: "Piedi larghezza spalle, scendi a ~90°. Spingi esplosivo senza bloccare ginocchia. Piramidale."},
						{Name: "Affondi in camminata", Sets: 3, Reps: "10+10", Rest: 90, Description: "Manubri ai lati, passo lungo. Ginocchio posteriore verso terra. 10 per gamba, busto eretto."},
					}},
					{Name: "Cardio", Icon: "🚴", Exercises: []Exercise{
						{Name: "Cyclette", Sets: 1, Reps: "10 min", Rest: 0, IsTimed: true, Duration: 600, Description: "10 min intensità moderata, RPM 70-90. Recupero attivo."},
					}},
					{Name: "Spalle", Icon: "🏋️", Exercises: []Exercise{
						{Name: "Croci a 90°", Sets: 4, Reps: "12", Rest: 90, Description: "Manubri ai lati, braccia laterali a 90°. Gomiti flessi, palmi in basso al picco. Peso leggero, tecnica perfetta."},
						{Name: "Shoulder Press", Sets: 4, Reps: "15-12-10-8", Rest: 120, Description: "Panca con schienale, manubri altezza orecchie. Spingi su, torna giù lento. Piramidale."},
					}},
				},
			},
			{
				ID: 3, Label: "Sessione 3", Subtitle: "Lombare · Dorso · Bicipiti",
				Color: "#34d399", Glow: "rgba(52,211,153,0.35)", Icon: "🦾",
				Type: SessionTypeWorkout,
				Groups: []Group{
					{Name: "Addome / Lombare", Icon: "🔥", Exercises: []Exercise{
						{Name: "Hyperextension", Sets: 3, Reps: "15", Rest: 60, Description: "Iperestensione: anche sul cuscinetto, piedi bloccati. Scendi e risali contraendo lombari fino alla linea retta."},
					}},
					{Name: "Dorso", Icon: "🔙", Exercises: []Exercise{
						{Name: "Row Presa Stretta", Sets: 4, Reps: "8", Rest: 120, Description: "Cavo basso presa prona stretta. Tira verso ombelico, gomiti ai fianchi, scapole al centro."},
						{Name: "Row Presa Larga", Sets: 2, Reps: "18", Rest: 90, Description: "Presa larga, gomiti verso l'esterno. Deltoide posteriore e fibre superiori dorsale. Volume alto."},
						{Name: "Lat Avanti", Sets: 4, Reps: "15-12-10-8", Rest: 120, Description: "Lat machine sbarra larga, tira al petto. Gomiti verso il pavimento, scapole abbassate. Piramidale."},
					}},
					{Name: "Bicipiti", Icon: "💪", Exercises: []Exercise{
						{Name: "Curl Cavo Basso", Sets: 4, Reps: "10", Rest: 90, Description: "Cavo basso barra dritta. Gomiti fissi, fletti verso spalle. Tensione costante anche in basso."},
						{Name: "Curl Manubri", Sets: 3, Reps: "8+8", Rest: 90, Description: "Curl alternato con supinazione al picco. 8 per braccio, gomito fermo, movimento lento."},
					}},
				},
			},
			{
				ID: 4, Label: "Attività Extra", Subtitle: "Gravel · Passeggiata",
				Color: "#fbbf24", Glow: "rgba(251,191,36,0.35)", Icon: "🚴",
				Type: SessionTypeExtra,
				Activities: []Activity{
					{Name: "Gravel Bike", Icon: "🚵", Description: "Sessione ciclismo su gravel. Avvia il timer."},
					{Name: "Passeggiata", Icon: "🚶", Description: "Camminata all'aperto. Traccia la durata."},
				},
			},
		},
	}
}
